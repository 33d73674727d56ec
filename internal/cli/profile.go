package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/philippedeswert/syncfw/pkg/profile"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage sync profiles",
	Long: `Manage the profiles in the store: list them, show their expanded
content, add new profiles from XML documents, remove or rename them, and
export summaries for review.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sync profiles",
	Long: `List all sync profiles visible through the store, system defaults
included. Hidden profiles are shown only with --all.`,
	RunE: runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a sync profile, expanded",
	Long: `Load the named sync profile, merge in all referenced sub-profiles
and print the composite document.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileShow,
}

var profileAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a profile from an XML document",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAdd,
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a sync profile and its log",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileRemove,
}

var profileRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a sync profile and its log",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileRename,
}

var profileExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export profile summaries as YAML",
	Long: `Write a YAML summary of every sync profile (name, flags, keys and
referenced sub-profiles) to stdout or a file, for review or diffing.`,
	RunE: runProfileExport,
}

var profileFlags struct {
	all        bool
	exportFile string
	removeType string
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profileRenameCmd)
	profileCmd.AddCommand(profileExportCmd)

	profileListCmd.Flags().BoolVar(&profileFlags.all, "all", false, "Include hidden profiles")
	profileExportCmd.Flags().StringVar(&profileFlags.exportFile, "file", "", "Write to file instead of stdout")
	profileRemoveCmd.Flags().StringVar(&profileFlags.removeType, "type", profile.TypeSync, "Profile type")
}

func runProfileList(cmd *cobra.Command, args []string) error {
	manager, err := newManager(cmd)
	if err != nil {
		return err
	}

	var profiles []*profile.SyncProfile
	if profileFlags.all {
		profiles = manager.AllSyncProfiles()
	} else {
		profiles = manager.AllVisibleSyncProfiles()
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name() < profiles[j].Name()
	})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tENABLED\tHIDDEN\tSYNC TYPE\tRESULTS")
	for _, p := range profiles {
		results := 0
		if p.Log() != nil {
			results = len(p.Log().Results())
		}
		fmt.Fprintf(w, "%s\t%t\t%t\t%s\t%d\n",
			p.Name(), p.IsEnabled(), p.IsHidden(), p.SyncType(), results)
	}
	return w.Flush()
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	manager, err := newManager(cmd)
	if err != nil {
		return err
	}

	p := manager.SyncProfile(args[0])
	if p == nil {
		return fmt.Errorf("sync profile %q not found", args[0])
	}

	data, err := profile.MarshalProfile(p.Profile)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runProfileAdd(cmd *cobra.Command, args []string) error {
	manager, err := newManager(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	name := manager.AddProfile(string(data))
	if name == "" {
		return fmt.Errorf("failed to add profile from %s", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added profile %q\n", name)
	return nil
}

func runProfileRemove(cmd *cobra.Command, args []string) error {
	manager, err := newManager(cmd)
	if err != nil {
		return err
	}

	if !manager.Remove(args[0], profileFlags.removeType) {
		return fmt.Errorf("failed to remove profile %q (missing or protected)", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %q\n", args[0])
	return nil
}

func runProfileRename(cmd *cobra.Command, args []string) error {
	manager, err := newManager(cmd)
	if err != nil {
		return err
	}

	if !manager.Rename(args[0], args[1]) {
		return fmt.Errorf("failed to rename profile %q to %q", args[0], args[1])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed profile %q to %q\n", args[0], args[1])
	return nil
}

// profileSummary is the YAML export shape.
type profileSummary struct {
	Name        string            `yaml:"name"`
	Type        string            `yaml:"type"`
	Enabled     bool              `yaml:"enabled"`
	Hidden      bool              `yaml:"hidden,omitempty"`
	Protected   bool              `yaml:"protected,omitempty"`
	SyncType    string            `yaml:"sync_type"`
	Keys        map[string]string `yaml:"keys,omitempty"`
	SubProfiles []string          `yaml:"sub_profiles,omitempty"`
}

func runProfileExport(cmd *cobra.Command, args []string) error {
	manager, err := newManager(cmd)
	if err != nil {
		return err
	}

	var summaries []profileSummary
	for _, p := range manager.AllSyncProfiles() {
		s := profileSummary{
			Name:      p.Name(),
			Type:      p.Type(),
			Enabled:   p.IsEnabled(),
			Hidden:    p.IsHidden(),
			Protected: p.IsProtected(),
			SyncType:  string(p.SyncType()),
			Keys:      p.Keys(),
		}
		for _, sub := range p.AllSubProfiles() {
			s.SubProfiles = append(s.SubProfiles, sub.Type()+"/"+sub.Name())
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

	data, err := yaml.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal profile summaries: %w", err)
	}

	if profileFlags.exportFile != "" {
		return os.WriteFile(profileFlags.exportFile, data, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
