package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hyperjump/talentmatch/internal/cli"
	"github.com/hyperjump/talentmatch/internal/extract"
)

var (
	skillsList    string
	skillsJob     string
	skillsJobFile string
	skillsLimit   int
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List job keywords missing from a skills list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSkills(cmd.OutOrStdout())
	},
}

func init() {
	skillsCmd.Flags().StringVarP(&skillsList, "skills", "s", "", "comma-separated candidate skills")
	skillsCmd.Flags().StringVar(&skillsJob, "job", "", "job description text")
	skillsCmd.Flags().StringVar(&skillsJobFile, "job-file", "", "job description file (.txt, .md, .docx or .pdf)")
	skillsCmd.Flags().IntVarP(&skillsLimit, "limit", "l", 0, "maximum number of missing skills (default from config)")
	rootCmd.AddCommand(skillsCmd)
}

// runSkills applies the same analyzer settings as the HTTP API.
func runSkills(out io.Writer) error {
	format, err := cli.ParseOutputFormat(outputFlag)
	if err != nil {
		return err
	}
	job, err := jobText(skillsJob, skillsJobFile)
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	a := newSkillAnalyzer(&cfg.Skills)
	if skillsLimit > 0 {
		a.Limit = skillsLimit
	}
	return cli.WriteMissingSkills(out, a.Missing(skillsList, job), format)
}

func jobText(inline, file string) (string, error) {
	switch {
	case inline != "" && file != "":
		return "", errors.New("use either --job or --job-file, not both")
	case file != "":
		text, err := extract.Extract(file)
		if err != nil {
			return "", fmt.Errorf("failed to read job file: %w", err)
		}
		return text, nil
	case inline != "":
		return inline, nil
	default:
		return "", errors.New("--job or --job-file is required")
	}
}
