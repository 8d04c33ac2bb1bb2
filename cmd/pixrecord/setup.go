package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/tauraamui/pixrecord/pkg/config"
	"github.com/tauraamui/pixrecord/pkg/configdef"
	db "github.com/tauraamui/pixrecord/pkg/database"
	"github.com/tauraamui/pixrecord/pkg/log"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Write the default config and create the takes database",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info("Setting up pixrecord...")

			err := config.DefaultCreator().Create()
			if err != nil {
				if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
					return err
				}
				log.Error(err.Error())
			}

			err = db.Setup()
			if err != nil {
				if !errors.Is(err, db.ErrDBAlreadyExists) {
					return err
				}
				log.Error(err.Error())
			}

			cmd.Println("Setup successful...")
			return nil
		},
	}
}

func newRemoveSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-setup",
		Short: "Delete the config file and the takes database",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info("Removing setup for pixrecord...")
			if err := config.DefaultDestroyer().Destroy(); err != nil {
				log.Error("unable to delete config file: %s", err.Error())
			}
			if err := db.Destroy(); err != nil {
				log.Error("unable to delete database file: %s", err.Error())
			}
			cmd.Println("Removing setup successful...")
			return nil
		},
	}
}
