package ui

import tea "github.com/charmbracelet/bubbletea"

// --- Key Helpers ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "q", "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

func isAdd(msg tea.KeyMsg) bool {
	return isKey(msg, "a", "+")
}

func isRemove(msg tea.KeyMsg) bool {
	return isKey(msg, "d", "-", "delete")
}

func isConfirm(msg tea.KeyMsg) bool {
	return isKey(msg, "y", "Y")
}

func isDeny(msg tea.KeyMsg) bool {
	return isKey(msg, "n", "N") || isBack(msg)
}

// keymap holds navigation keys that depend on the vim_keys setting.
type keymap struct {
	vim bool
}

func (k keymap) up(msg tea.KeyMsg) bool {
	return isKey(msg, "up") || (k.vim && isKey(msg, "k"))
}

func (k keymap) down(msg tea.KeyMsg) bool {
	return isKey(msg, "down") || (k.vim && isKey(msg, "j"))
}

func (k keymap) moveUp(msg tea.KeyMsg) bool {
	return isKey(msg, "shift+up", "K")
}

func (k keymap) moveDown(msg tea.KeyMsg) bool {
	return isKey(msg, "shift+down", "J")
}
