package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dolabb/dolabbctl/internal/console"
	"github.com/dolabb/dolabbctl/internal/domain"
)

var heroCmd = &cobra.Command{
	Use:   "hero",
	Short: "Manage the homepage hero section",
	Long: `Show or replace the homepage hero section.

Examples:
  dolabbctl hero show
  dolabbctl hero update --background gradient --gradient "#667eea,#764ba2" --title "Summer drop"
  dolabbctl hero update --background image --image banner.jpg`,
}

var heroShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the hero section",
	Args:  cobra.NoArgs,
	RunE:  runHeroShow,
}

var heroUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Replace the hero section",
	Args:  cobra.NoArgs,
	RunE:  runHeroUpdate,
}

// heroFlags maps update flags to the console input keys they fill.
var heroFlags = map[string]string{
	"background":  "background",
	"image-url":   "image_url",
	"color":       "color",
	"gradient":    "gradient",
	"direction":   "direction",
	"title":       "title",
	"subtitle":    "subtitle",
	"button-text": "button_text",
	"button-link": "button_link",
	"text-color":  "text_color",
	"active":      "active",
}

func init() {
	rootCmd.AddCommand(heroCmd)
	heroCmd.AddCommand(heroShowCmd, heroUpdateCmd)

	heroShowCmd.Flags().Bool("json", false, "output as JSON")

	f := heroUpdateCmd.Flags()
	f.String("background", "", "background type (image, single_color, gradient); defaults to the current one")
	f.String("image", "", "image file to upload")
	f.String("image-url", "", "image URL instead of an upload")
	f.String("color", "", "single background color, e.g. #1a2b3c")
	f.String("gradient", "", "comma-separated gradient colors")
	f.String("direction", "", "gradient direction (to right, to bottom, to left, to top, 135deg)")
	f.String("title", "", "headline")
	f.String("subtitle", "", "subheadline")
	f.String("button-text", "", "call-to-action label")
	f.String("button-link", "", "call-to-action link")
	f.String("text-color", "", "text color, e.g. #ffffff")
	f.String("active", "", "show the section (true or false)")
}

// loadHero mounts the hero panel and returns the section's id, or "" when
// none is configured.
func loadHero(cmd *cobra.Command) (*app, console.Panel, string, error) {
	a, p, err := panelFor("hero")
	if err != nil {
		return nil, nil, "", err
	}
	if err := p.Load(commandContext(cmd), domain.Filter{}, 1); err != nil {
		return nil, nil, "", err
	}
	rows := p.Table().Rows
	if len(rows) == 0 {
		return a, p, "", nil
	}
	return a, p, rows[0].ID, nil
}

func runHeroShow(cmd *cobra.Command, args []string) error {
	_, p, id, err := loadHero(cmd)
	if err != nil {
		return err
	}
	if id == "" {
		printer.Info("No hero section configured")
		return nil
	}
	d, err := p.Show(commandContext(cmd), id)
	if err != nil {
		return err
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printer.JSON(d)
	}
	printer.RenderDetail(d.Title, d.Lines, nil)
	printer.PrintHints("hero show")
	return nil
}

func runHeroUpdate(cmd *cobra.Command, args []string) error {
	a, p, id, err := loadHero(cmd)
	if err != nil {
		return err
	}
	if id == "" {
		return &domain.ValidationError{Field: "hero", Message: "no hero section exists to update"}
	}
	ctx := commandContext(cmd)

	in := console.Input{Values: make(map[string]string)}
	for flag, key := range heroFlags {
		if cmd.Flags().Changed(flag) {
			in.Values[key], _ = cmd.Flags().GetString(flag)
		}
	}
	if !in.Has("background") {
		current, err := a.api.Hero().Get(ctx, id)
		if err != nil {
			return err
		}
		in.Values["background"] = current.BackgroundType
	}
	if path, _ := cmd.Flags().GetString("image"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return flagError("--image: %v", err)
		}
		defer f.Close()
		in.File, in.FileName = f, filepath.Base(path)
	}

	notice, err := p.Act(ctx, id, domain.ActionUpdateHero, in)
	printer.Notice(notice)
	if err != nil {
		return &reportedError{err: err}
	}
	return nil
}
