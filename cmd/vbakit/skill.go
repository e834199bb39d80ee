package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vbakit/vbakit/pkg/presenter"
	"github.com/vbakit/vbakit/pkg/skills"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Inspect the skill bundles this repository packages",
	Long: `List and validate skill bundles: directories containing a SKILL.md file
with YAML frontmatter (name, description) plus optional helper scripts.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered skill bundles",
	Run: func(cmd *cobra.Command, _ []string) {
		var opts []skills.Option
		if dirs, err := cmd.Flags().GetStringSlice("dir"); err == nil && len(dirs) > 0 {
			opts = append(opts, skills.WithSkillDirs(dirs...))
		}

		discovery, err := skills.NewDiscovery(opts...)
		if err != nil {
			presenter.Error(err, "Failed to initialize skill discovery")
			os.Exit(exitUsage)
		}

		allSkills, err := discovery.DiscoverSkills()
		if err != nil {
			presenter.Error(err, "Failed to discover skills")
			os.Exit(exitUsage)
		}
		if len(allSkills) == 0 {
			presenter.Info("No skills found")
			return
		}

		names := make([]string, 0, len(allSkills))
		for name := range allSkills {
			names = append(names, name)
		}
		sort.Strings(names)

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDIRECTORY\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t---------\t-----------")
		for _, name := range names {
			skill := allSkills[name]
			description := skill.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", skill.Name, skill.Directory, description)
		}
		tw.Flush()
	},
}

var skillValidateCmd = &cobra.Command{
	Use:   "validate [dirs...]",
	Short: "Validate skill bundles",
	Long: `Check that each skill bundle would be accepted by an assistant's skill
installer: the SKILL.md parses, the frontmatter is strict YAML, and name
and description are present. Without arguments every bundle under ./skills
is validated.`,
	Run: func(cmd *cobra.Command, args []string) {
		dirs := args
		if len(dirs) == 0 {
			root, _ := cmd.Flags().GetString("root")
			found, err := skills.FindSkillDirs(root)
			if err != nil {
				presenter.Error(err, "Failed to find skill bundles")
				os.Exit(exitUsage)
			}
			dirs = found
		}
		if len(dirs) == 0 {
			presenter.Warning("No skill bundles found")
			os.Exit(exitUsage)
		}

		invalid := 0
		for _, dir := range dirs {
			if err := skills.Validate(dir); err != nil {
				presenter.Error(err, fmt.Sprintf("Invalid skill bundle %s", dir))
				invalid++
				continue
			}
			presenter.Success(fmt.Sprintf("Valid skill bundle %s", dir))
		}

		if invalid > 0 {
			presenter.Error(fmt.Errorf("%d invalid bundle(s)", invalid), "Validation failed")
			os.Exit(exitStrict)
		}
	},
}

func init() {
	skillListCmd.Flags().StringSliceP("dir", "d", nil, "Skill directories to search instead of the defaults")
	skillValidateCmd.Flags().String("root", "./skills", "Directory to search for skill bundles")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillValidateCmd)
	rootCmd.AddCommand(skillCmd)
}
