package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var errNoRemote = errors.New("object store is not configured (set OBJECT_STORE_TYPE)")

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Upload the document to the object store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if deps.Cloud == nil {
			return errNoRemote
		}
		if err := deps.Cloud.Save(cmd.Context(), identity, deps.Store.Data()); err != nil {
			return err
		}
		cmd.Println("saved")
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the document with the object store copy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if deps.Cloud == nil {
			return errNoRemote
		}
		doc, found, err := deps.Cloud.Load(cmd.Context(), identity)
		if err != nil {
			return err
		}
		if !found {
			cmd.Println("no saved document")
			return nil
		}
		if err := deps.Store.LoadData(cmd.Context(), doc); err != nil {
			return err
		}
		cmd.Println("loaded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveCmd, loadCmd)
}
