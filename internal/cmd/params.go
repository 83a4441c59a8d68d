package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/bndr/gotabulate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/paramedit/internal/arrayfield"
	"github.com/gravitrone/paramedit/internal/flat"
	"github.com/gravitrone/paramedit/internal/record"
)

// ParamsCmd returns the `paramedit params` command group.
func ParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Inspect and edit record parameters",
	}
	cmd.AddCommand(paramsNormalizeCmd())
	cmd.AddCommand(paramsItemsCmd())
	cmd.AddCommand(paramsAppendCmd())
	cmd.AddCommand(paramsRemoveCmd())
	cmd.AddCommand(paramsMoveCmd())
	return cmd
}

// schemaFlags are shared by the commands that address one array property.
type schemaFlags struct {
	path      string
	component string
}

func (f *schemaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "schema", "s", "", "resource schema describing the property")
	cmd.Flags().StringVarP(&f.component, "component", "c", "", "OpenAPI component schema")
}

func paramsNormalizeCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "normalize <record>",
		Short: "Round-trip params through unflatten and flatten",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			rec, err := record.Load(path)
			if err != nil {
				return fmt.Errorf("load record: %w", err)
			}
			rec.Params = record.Params(flat.Normalize(rec.Params))

			if !write {
				return printParams(cmd.OutOrStdout(), rec.Params)
			}
			return saveRecord(cmd, path, rec, "normalized")
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the record")
	return cmd
}

func paramsItemsCmd() *cobra.Command {
	var sf schemaFlags
	cmd := &cobra.Command{
		Use:   "items <record> <property>",
		Short: "List the items of an array property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := record.Load(args[0])
			if err != nil {
				return fmt.Errorf("load record: %w", err)
			}
			prop, err := resolveProperty(sf.path, sf.component, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			items := arrayfield.DeriveItems(rec.Params, prop)
			if len(items) == 0 {
				fmt.Fprintln(out, "no items")
				return nil
			}
			fmt.Fprint(out, renderItems(prop, items))
			if msg, ok := rec.ErrorFor(prop.Name); ok {
				fmt.Fprintf(out, "error: %s\n", msg)
			}
			return nil
		},
	}
	sf.register(cmd)
	return cmd
}

func paramsAppendCmd() *cobra.Command {
	var sf schemaFlags
	var composite bool
	cmd := &cobra.Command{
		Use:   "append <record> <property>",
		Short: "Append an empty item to an array property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			rec, err := record.Load(path)
			if err != nil {
				return fmt.Errorf("load record: %w", err)
			}
			prop, err := resolveProperty(sf.path, sf.component, args[1])
			if err != nil {
				return err
			}

			if composite && !prop.HasSubProperties() {
				items := append(arrayfield.DeriveItems(rec.Params, prop), map[string]any{})
				rec.Params = arrayfield.UpdateArray(rec.Params, prop.Name, items)
			} else {
				rec.Params = arrayfield.Append(rec.Params, prop)
			}
			n := len(arrayfield.DeriveItems(rec.Params, prop))
			return saveRecord(cmd, path, rec, fmt.Sprintf("appended %s (%d items)", arrayfield.ItemProperty(prop, n-1).Name, n))
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&composite, "composite", false, "append an empty object instead of an empty string")
	return cmd
}

func paramsRemoveCmd() *cobra.Command {
	var sf schemaFlags
	cmd := &cobra.Command{
		Use:   "remove <record> <property> <index>",
		Short: "Remove the item at a zero-based index",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[2], err)
			}
			rec, err := record.Load(path)
			if err != nil {
				return fmt.Errorf("load record: %w", err)
			}
			prop, err := resolveProperty(sf.path, sf.component, args[1])
			if err != nil {
				return err
			}

			count := len(arrayfield.DeriveItems(rec.Params, prop))
			if index < 0 || index >= count {
				fmt.Fprintf(cmd.OutOrStdout(), "index %d out of range (%d items), nothing removed\n", index, count)
				return nil
			}
			rec.Params = arrayfield.RemoveAt(rec.Params, prop, index)
			return saveRecord(cmd, path, rec, fmt.Sprintf("removed %s (%d items)", arrayfield.ItemProperty(prop, index).Name, count-1))
		},
	}
	sf.register(cmd)
	return cmd
}

func paramsMoveCmd() *cobra.Command {
	var sf schemaFlags
	cmd := &cobra.Command{
		Use:   "move <record> <property> <from> <to>",
		Short: "Move an item to another zero-based position",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			from, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[2], err)
			}
			to, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[3], err)
			}
			rec, err := record.Load(path)
			if err != nil {
				return fmt.Errorf("load record: %w", err)
			}
			prop, err := resolveProperty(sf.path, sf.component, args[1])
			if err != nil {
				return err
			}

			count := len(arrayfield.DeriveItems(rec.Params, prop))
			if from < 0 || from >= count || to < 0 || to >= count {
				return fmt.Errorf("move %d -> %d out of range (%d items)", from, to, count)
			}
			rec.Params = arrayfield.Move(rec.Params, prop, from, to)
			return saveRecord(cmd, path, rec, fmt.Sprintf("moved %s.%d to %d", prop.Name, from, to))
		},
	}
	sf.register(cmd)
	return cmd
}

func saveRecord(cmd *cobra.Command, path string, rec record.Record, summary string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if err := record.Save(path, rec); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	e.logger.Info("record updated",
		zap.String("path", path),
		zap.String("id", rec.ID),
		zap.String("change", summary),
	)
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}

func printParams(w io.Writer, params record.Params) error {
	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderItems(prop record.Property, items []any) string {
	rows := make([][]any, 0, len(items))
	for i, item := range items {
		rows = append(rows, []any{arrayfield.ItemProperty(prop, i).Label, itemText(item)})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"#", prop.DisplayLabel()})
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return t.Render("grid")
}

func itemText(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}
