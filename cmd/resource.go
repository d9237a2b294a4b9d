package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dolabb/dolabbctl/internal/client"
	"github.com/dolabb/dolabbctl/internal/console"
	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/view"
)

// actionNames gives resource-qualified action kinds their short command
// names. Other kinds are used as they are.
var actionNames = map[domain.ActionKind]string{
	domain.ActionReview:           "mark-reviewed",
	domain.ActionApproveCashout:   "approve",
	domain.ActionRejectCashout:    "reject",
	domain.ActionApprovePayout:    "approve",
	domain.ActionRejectPayout:     "reject",
	domain.ActionUpdateDispute:    "update",
	domain.ActionCloseDispute:     "close",
	domain.ActionUploadEvidence:   "upload-evidence",
	domain.ActionToggleStatus:     "toggle-status",
	domain.ActionUpdateCommission: "set-commission",
	domain.ActionUpdateHero:       "update",
}

// customResources get hand-written command trees instead of the generic one.
var customResources = map[string]bool{"hero": true}

// resourceExtensions add resource-specific subcommands and flags to a
// generic command tree.
var resourceExtensions = map[string]func(parent *cobra.Command){
	"notifications": extendNotifications,
}

func actionName(kind domain.ActionKind) string {
	if name, ok := actionNames[kind]; ok {
		return name
	}
	return string(kind)
}

func init() {
	// Command shapes come from the bindings alone; nothing here talks to
	// the backend.
	shapes := console.NewRegistry(client.New(nil), nil)
	for _, p := range shapes.All() {
		if customResources[p.Resource()] {
			continue
		}
		rootCmd.AddCommand(newResourceCmd(p))
	}
}

func newResourceCmd(p console.Panel) *cobra.Command {
	resource := p.Resource()
	parent := &cobra.Command{
		Use:   resource,
		Short: p.Title(),
		Long: fmt.Sprintf(`%s.

Examples:
  dolabbctl %[2]s list
  dolabbctl %[2]s list --page 2 --json
  dolabbctl %[2]s show <id>`, p.Title(), resource),
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s", resource),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourceList(cmd, resource)
		},
	}
	addListFlags(list, p)
	list.Flags().Bool("json", false, "output as JSON")
	list.Flags().String("pdf", "", "write the page as a PDF report to this file")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show one %s", p.Noun()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourceShow(cmd, resource, args[0])
		},
	}
	show.Flags().Bool("json", false, "output as JSON")
	parent.AddCommand(list, show)

	for _, kind := range p.Actions() {
		parent.AddCommand(newActionCmd(p, kind))
	}
	for _, kind := range p.CollectionActions() {
		parent.AddCommand(newCollectionCmd(p, kind))
	}
	if extend, ok := resourceExtensions[resource]; ok {
		extend(parent)
	}
	return parent
}

func newActionCmd(p console.Panel, kind domain.ActionKind) *cobra.Command {
	resource := p.Resource()
	t := p.Text(kind)
	c := &cobra.Command{
		Use:   actionName(kind) + " <id>",
		Short: fmt.Sprintf("%s a %s", sentence(t.Verb), p.Noun()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourceAction(cmd, resource, args[0], kind)
		},
	}
	if name := actionName(kind); name != string(kind) {
		c.Aliases = []string{string(kind)}
	}
	addListFlags(c, p)
	addInputFlags(c)
	c.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return c
}

func newCollectionCmd(p console.Panel, kind domain.ActionKind) *cobra.Command {
	resource := p.Resource()
	t := p.Text(kind)
	c := &cobra.Command{
		Use:   actionName(kind),
		Short: fmt.Sprintf("%s %s", sentence(t.Verb), resource),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeFile, err := inputFromFlags(cmd)
			if err != nil {
				return err
			}
			defer closeFile()
			return runCollectionAction(cmd, resource, kind, in)
		},
	}
	addInputFlags(c)
	return c
}

// addListFlags adds --page plus one flag per filter the view offers.
func addListFlags(c *cobra.Command, p console.Panel) {
	c.Flags().Int("page", 1, "page number")
	c.Flags().String("query", "", "search text")
	for _, f := range p.Filters() {
		c.Flags().String(f.Name, "", fmt.Sprintf("filter by %s (%s)", f.Name, strings.Join(f.Values, ", ")))
	}
	if p.Resource() == "activity" {
		c.Flags().String("action", "", "filter by action keyword")
		c.Flags().String("from", "", "earliest date (YYYY-MM-DD)")
		c.Flags().String("to", "", "latest date (YYYY-MM-DD)")
	}
}

func addInputFlags(c *cobra.Command) {
	c.Flags().String("reason", "", "reason recorded with the action")
	c.Flags().StringArray("set", nil, "action field as key=value (repeatable)")
	c.Flags().String("file", "", "file to upload with the action")
}

func filterFromFlags(cmd *cobra.Command) domain.Filter {
	get := func(name string) string {
		if cmd.Flags().Lookup(name) == nil {
			return ""
		}
		v, _ := cmd.Flags().GetString(name)
		return strings.TrimSpace(v)
	}
	return domain.Filter{
		Status:   get("status"),
		Type:     get("type"),
		Audience: get("audience"),
		Action:   get("action"),
		From:     get("from"),
		To:       get("to"),
		Query:    get("query"),
	}
}

// inputFromFlags collects --reason, --set and --file. The returned func
// closes the opened file.
func inputFromFlags(cmd *cobra.Command) (console.Input, func(), error) {
	in := console.Input{Values: make(map[string]string)}
	done := func() {}

	in.Reason, _ = cmd.Flags().GetString("reason")
	pairs, _ := cmd.Flags().GetStringArray("set")
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return in, done, flagError("--set %q: want key=value", pair)
		}
		in.Values[strings.TrimSpace(k)] = v
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return in, done, flagError("--file: %v", err)
		}
		in.File, in.FileName = f, filepath.Base(path)
		done = func() { _ = f.Close() }
	}
	return in, done, nil
}

func runResourceList(cmd *cobra.Command, resource string) error {
	_, p, err := panelFor(resource)
	if err != nil {
		return err
	}
	page, _ := cmd.Flags().GetInt("page")
	if err := p.Load(commandContext(cmd), filterFromFlags(cmd), page); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("pdf"); path != "" {
		return writePDF(p, path)
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printer.JSON(p.Table())
	}
	printer.RenderTable(p.Table())
	printer.PrintHints(resource + " list")
	return nil
}

func writePDF(p console.Panel, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := p.WritePDF(f, time.Now()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	printer.Success("Wrote %s", path)
	return nil
}

func runResourceShow(cmd *cobra.Command, resource, id string) error {
	_, p, err := panelFor(resource)
	if err != nil {
		return err
	}
	d, err := p.Show(commandContext(cmd), id)
	if err != nil {
		return err
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printer.JSON(d)
	}
	printer.RenderDetail(d.Title, d.Lines, d.Actions)
	return nil
}

func runResourceAction(cmd *cobra.Command, resource, id string, kind domain.ActionKind) error {
	_, p, err := panelFor(resource)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	in, closeFile, err := inputFromFlags(cmd)
	if err != nil {
		return err
	}
	defer closeFile()

	page, _ := cmd.Flags().GetInt("page")
	if err := p.Load(ctx, filterFromFlags(cmd), page); err != nil && !errors.Is(err, domain.ErrSuperseded) {
		return err
	}

	req, ask, err := p.Confirmation(ctx, id, kind)
	if err != nil {
		return err
	}
	if yes, _ := cmd.Flags().GetBool("yes"); ask && !yes {
		confirmer := view.NewPromptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
		confirmer.Reason = in.Reason
		resp, err := confirmer.Confirm(ctx, req)
		if err != nil {
			return err
		}
		if !resp.Confirmed {
			printer.Info("Cancelled")
			return nil
		}
		in.Reason = resp.Reason
	}

	notice, err := p.Act(ctx, id, kind, in)
	printer.Notice(notice)
	printer.RenderTable(p.Table())
	if err != nil {
		return &reportedError{err: err}
	}
	return nil
}

func runCollectionAction(cmd *cobra.Command, resource string, kind domain.ActionKind, in console.Input) error {
	_, p, err := panelFor(resource)
	if err != nil {
		return err
	}
	notice, err := p.ActOnCollection(commandContext(cmd), kind, in)
	printer.Notice(notice)
	if err != nil {
		return &reportedError{err: err}
	}
	printer.RenderTable(p.Table())
	return nil
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
