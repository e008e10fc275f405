package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"cloakchat/internal/cipher"
	"cloakchat/internal/keys"
)

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Inspect and manage the cipher shift",
	}
	cmd.AddCommand(keysRotateCmd(), keysExportCmd(), keysImportCmd(), keysStrengthCmd(), keysDeriveCmd(), keysVigenereCmd())
	return cmd
}

func keysRotateCmd() *cobra.Command {
	var secure bool

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Pick a new shift and print its export descriptor",
		Long: "Rotation does not re-encrypt stored messages: ciphertext written\n" +
			"under the old shift will no longer decrypt correctly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			km := keys.New(cfg.Cipher.Shift)
			var rot keys.Rotation
			if secure {
				rot = km.RotateSecure()
			} else {
				rot = km.Rotate()
			}

			fmt.Printf("Rotated shift %d -> %d\n", rot.Old, rot.New)
			return json.NewEncoder(os.Stdout).Encode(km.Export())
		},
	}

	cmd.Flags().BoolVar(&secure, "secure", false, "avoid the weak shift set")
	return cmd
}

func keysExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the configured shift as an export descriptor",
		RunE: func(cmd *cobra.Command, args []string) error {
			km := keys.New(cfg.Cipher.Shift)
			return json.NewEncoder(os.Stdout).Encode(km.Export())
		},
	}
}

func keysImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <descriptor.json>",
		Short: "Validate a descriptor file and report its shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var d keys.Descriptor
			if err := json.Unmarshal(data, &d); err != nil {
				return err
			}

			km := keys.New(cfg.Cipher.Shift)
			if err := km.Import(d); err != nil {
				return err
			}

			fmt.Printf("Descriptor valid. Shift: %d (%s)\n", km.Shift(), keys.Classify(km.Shift()).Tier)
			return nil
		},
	}
}

func keysStrengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strength [shift]",
		Short: "Classify a shift value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift := cfg.Cipher.Shift
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 || n > 25 {
					return fmt.Errorf("shift must be an integer in [1,25]")
				}
				shift = n
			}

			s := keys.Classify(shift)
			fmt.Printf("Shift %d: %s (score %d) - %s\n", shift, s.Tier, s.Score, s.Rationale)
			return nil
		},
	}
}

func keysDeriveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "derive <passphrase>",
		Short: "Derive a shift from a memorable passphrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift := cipher.DeriveShift(args[0])
			fmt.Printf("Shift %d (%s)\n", shift, keys.Classify(shift).Tier)
			return nil
		},
	}
}

func keysVigenereCmd() *cobra.Command {
	var decrypt bool

	cmd := &cobra.Command{
		Use:   "vigenere <key> <text>",
		Short: "Run text through the keyword cipher",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if decrypt {
				fmt.Println(cipher.VigenereDecrypt(args[1], args[0]))
			} else {
				fmt.Println(cipher.VigenereEncrypt(args[1], args[0]))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&decrypt, "decrypt", false, "decrypt instead of encrypt")
	return cmd
}
