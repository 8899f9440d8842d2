package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dedupsim/dedupsim/sim/dictionary"
)

// --- dedupsim tiers ---

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Print the dictionary sizing tier table",
	Run: func(cmd *cobra.Command, args []string) {
		if err := printTiers(cmd.OutOrStdout(), dictionary.Tiers()); err != nil {
			logrus.Fatalf("Printing tiers failed: %v", err)
		}
	},
}

func printTiers(w io.Writer, tiers []dictionary.Tier) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SIZE\tMIN KEYS\tMAX KEYS\tBASE RAM MB\tADDITIONAL RAM MB\tSHIFT\tPAGE SHIFT")
	for _, t := range tiers {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			t.SizeLabel, t.MinKeys, t.MaxKeys, t.BaseRAMMB, t.AdditionalRAMMB, t.Shift, t.PageShift)
	}
	return tw.Flush()
}

// --- dedupsim lookup ---

var (
	lookupKeys      uint64
	lookupDictBytes uint64
	lookupOutput    string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Resolve a used-key count to a dictionary tier",
	Long: "Resolve an operator-supplied used-key count to its dictionary tier and report headroom. " +
		"With --dict-bytes, also identify the tier an existing dictionary file was sized for and flag a needed resize.",
	Run: func(cmd *cobra.Command, args []string) {
		h := dictionary.Assess(lookupKeys, lookupDictBytes)
		if err := writeHealth(cmd.OutOrStdout(), h, lookupOutput); err != nil {
			logrus.Fatalf("Writing lookup result failed: %v", err)
		}
	},
}

func writeHealth(w io.Writer, h dictionary.Health, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(h); err != nil {
			return err
		}
		return enc.Close()
	case "table":
	default:
		return fmt.Errorf("unknown output format %q; valid: table, json, yaml", format)
	}

	fmt.Fprintf(w, "Used Keys      : %d\n", h.Required.RequiredKeys)
	if h.Required.Fits() {
		t := h.Required.Tier
		fmt.Fprintf(w, "Required Tier  : %s (%.2f %% used, %d keys headroom)\n", t.SizeLabel, h.Required.UsedPct, h.HeadroomKeys)
		fmt.Fprintf(w, "RAM            : %d MB base + %d MB additional\n", t.BaseRAMMB, t.AdditionalRAMMB)
		fmt.Fprintf(w, "Shift          : %d (page shift %d)\n", t.Shift, t.PageShift)
	} else {
		fmt.Fprintf(w, "Required Tier  : none (%s, largest tier holds %d keys)\n", h.Required.Status, dictionary.MaxKeys())
	}
	if h.DictFileBytes > 0 {
		if h.SizeRecognized {
			fmt.Fprintf(w, "Dictionary File: %d bytes (%s tier)\n", h.DictFileBytes, h.Configured.SizeLabel)
		} else {
			fmt.Fprintf(w, "Dictionary File: %d bytes (no matching tier)\n", h.DictFileBytes)
		}
	}
	fmt.Fprintf(w, "Needs Resize   : %t\n", h.NeedsResize)
	return nil
}

// --- dedupsim presets ---

var presetsDefaultsPath string

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List scenario presets from the defaults file",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadDefaultsConfig(presetsDefaultsPath)
		if err != nil {
			logrus.Fatalf("Failed to load presets: %v", err)
		}
		out := cmd.OutOrStdout()
		for _, name := range cfg.PresetNames() {
			p := cfg.Presets[name]
			fmt.Fprintf(out, "%-16s %s\n", name, p.Description)
		}
	},
}

func init() {
	lookupCmd.Flags().Uint64Var(&lookupKeys, "keys", 0, "Number of used dictionary keys")
	lookupCmd.Flags().Uint64Var(&lookupDictBytes, "dict-bytes", 0, "Size in bytes of the existing dictionary file (optional)")
	lookupCmd.Flags().StringVar(&lookupOutput, "output", "table", "Output format (table, json, yaml)")
	_ = lookupCmd.MarkFlagRequired("keys")

	presetsCmd.Flags().StringVar(&presetsDefaultsPath, "defaults", "defaults.yaml", "Path to the defaults file holding presets")

	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(presetsCmd)
}
