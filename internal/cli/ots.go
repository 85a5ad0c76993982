package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"maintenanceManagement/internal/guard"
	"maintenanceManagement/internal/workorder"
)

func otsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ots",
		Aliases: []string{"ot"},
		Short:   "List and manage work orders",
	}
	cmd.AddCommand(
		otsListCmd(app), otsCreateCmd(app), otsUpdateCmd(app), otsDeleteCmd(app),
		otsMineCmd(app), otsStartCmd(app), otsFinishCmd(app),
	)
	return cmd
}

func requireAdmin(app *App) error {
	return guard.Check(guard.AdminGuard{Logger: app.logger}, app.store)
}

func requireOperario(app *App) error {
	return guard.Check(guard.OperarioGuard{Logger: app.logger}, app.store)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid work order id %q", s)
	}
	return id, nil
}

// report prints the list message in the colour matching err.
func report(app *App, msg string, err error) error {
	if err != nil {
		if msg == "" {
			return err
		}
		failure(app.Err, msg)
		return errFailed
	}
	success(app.Out, msg)
	return nil
}

func otsListCmd(app *App) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every work order (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAdmin(app); err != nil {
				return err
			}
			return withRemote(app, func(ctx context.Context, r workorder.Remote) error {
				l := workorder.NewAdminList(r, app.listConfig())
				if err := l.LoadAll(ctx); err != nil {
					return report(app, l.Message(), err)
				}
				l.Paginate(page, 0)
				printRows(app.Out, l.Rows(), l.Page(), l.TotalPages())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	return cmd
}

// formFlags binds the work order form to flags.
func formFlags(fs *pflag.FlagSet, f *workorder.Form, minutes *int) {
	fs.StringVar(&f.OrderNumber, "order-number", "", "order number")
	fs.StringVar(&f.RequestDate, "request-date", "", "request date (YYYY-MM-DD)")
	fs.StringVar(&f.InitialDate, "initial-date", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&f.CompletionDate, "completion-date", "", "completion date (YYYY-MM-DD)")
	fs.IntVar(minutes, "completion-time", -1, "minutes spent")
	fs.StringVar(&f.Observations, "observations", "", "free text notes")
	fs.Int64Var(&f.IDUser, "user", 0, "assigned user id")
	fs.Int64Var(&f.IDTaskList, "task-list", 0, "task list id")
	fs.Int64Var(&f.IDPriority, "priority", 0, "priority id")
	fs.Int64Var(&f.IDOTState, "state", 0, "state id")
	fs.Int64Var(&f.IDTag, "tag", 0, "asset tag id")
}

func applyMinutes(fs *pflag.FlagSet, f *workorder.Form, minutes int) {
	if fs.Changed("completion-time") {
		f.CompletionTime = &minutes
	}
}

func otsCreateCmd(app *App) *cobra.Command {
	var (
		form    workorder.Form
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a work order (admin)",
		Long: `Create a work order.

Example:
  otctl ots create --order-number OT-120 --user 3 --task-list 1 --priority 2 --state 1 --tag 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireAdmin(app); err != nil {
				return err
			}
			applyMinutes(cmd.Flags(), &form, minutes)
			return withRemote(app, func(ctx context.Context, r workorder.Remote) error {
				l := workorder.NewAdminList(r, app.listConfig())
				row, err := l.Create(ctx, form)
				if err == nil {
					fmt.Fprintf(app.Out, "%d\t%s\n", row.ID, row.OrderNumber)
				}
				return report(app, l.Message(), err)
			})
		},
	}
	formFlags(cmd.Flags(), &form, &minutes)
	return cmd
}

func otsUpdateCmd(app *App) *cobra.Command {
	var (
		form    workorder.Form
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a work order (admin)",
		Long: `Edit a work order. Every field of the form is sent; unset flags keep
the loaded value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(app); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRemote(app, func(ctx context.Context, r workorder.Remote) error {
				l := workorder.NewAdminList(r, app.listConfig())
				if err := l.LoadAll(ctx); err != nil {
					return report(app, l.Message(), err)
				}
				current, ok := l.Find(id)
				if !ok {
					return fmt.Errorf("work order %d not found", id)
				}
				merged := mergeForm(cmd.Flags(), workorder.FormOf(current), form)
				applyMinutes(cmd.Flags(), &merged, minutes)
				_, err := l.Update(ctx, id, merged)
				return report(app, l.Message(), err)
			})
		},
	}
	formFlags(cmd.Flags(), &form, &minutes)
	return cmd
}

// mergeForm overlays the flags that were set on base.
func mergeForm(fs *pflag.FlagSet, base, set workorder.Form) workorder.Form {
	str := map[string]struct{ dst, src *string }{
		"order-number":    {&base.OrderNumber, &set.OrderNumber},
		"request-date":    {&base.RequestDate, &set.RequestDate},
		"initial-date":    {&base.InitialDate, &set.InitialDate},
		"completion-date": {&base.CompletionDate, &set.CompletionDate},
		"observations":    {&base.Observations, &set.Observations},
	}
	for name, p := range str {
		if fs.Changed(name) {
			*p.dst = *p.src
		}
	}
	ids := map[string]struct{ dst, src *int64 }{
		"user":      {&base.IDUser, &set.IDUser},
		"task-list": {&base.IDTaskList, &set.IDTaskList},
		"priority":  {&base.IDPriority, &set.IDPriority},
		"state":     {&base.IDOTState, &set.IDOTState},
		"tag":       {&base.IDTag, &set.IDTag},
	}
	for name, p := range ids {
		if fs.Changed(name) {
			*p.dst = *p.src
		}
	}
	return base
}

func otsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a work order (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAdmin(app); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRemote(app, func(ctx context.Context, r workorder.Remote) error {
				l := workorder.NewAdminList(r, app.listConfig())
				err := l.Delete(ctx, id)
				return report(app, l.Message(), err)
			})
		},
	}
}

// operatorList loads the signed-in operator's orders.
func operatorList(ctx context.Context, app *App, r workorder.Remote) (*workorder.OperatorList, error) {
	l := workorder.NewOperatorList(r, app.store, app.listConfig())
	if err := l.LoadMine(ctx); err != nil {
		return l, report(app, l.Message(), err)
	}
	return l, nil
}

func otsMineCmd(app *App) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List the work orders assigned to you (operario)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireOperario(app); err != nil {
				return err
			}
			return withRemote(app, func(ctx context.Context, r workorder.Remote) error {
				l, err := operatorList(ctx, app, r)
				if err != nil {
					return err
				}
				l.Paginate(page, 0)
				printRows(app.Out, l.Rows(), l.Page(), l.TotalPages())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page to show")
	return cmd
}

func otsStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Mark one of your work orders as in progress (operario)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOperario(app); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRemote(app, func(ctx context.Context, r workorder.Remote) error {
				l, err := operatorList(ctx, app, r)
				if err != nil {
					return err
				}
				err = l.StartByID(ctx, id)
				return report(app, l.Message(), err)
			})
		},
	}
}

func otsFinishCmd(app *App) *cobra.Command {
	var minutes string
	cmd := &cobra.Command{
		Use:   "finish <id>",
		Short: "Mark one of your work orders as finished (operario)",
		Long: `Mark a work order as finished today. The minutes spent are asked for
when --minutes is not given; an empty answer leaves the order untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOperario(app); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRemote(app, func(ctx context.Context, r workorder.Remote) error {
				l, err := operatorList(ctx, app, r)
				if err != nil {
					return err
				}
				ot, ok := l.Find(id)
				if !ok {
					return fmt.Errorf("work order %d is not assigned to you", id)
				}
				if cmd.Flags().Changed("minutes") {
					err = l.FinishTask(ctx, ot, minutes)
				} else {
					err = l.FinishWithPrompt(ctx, ot, workorder.LinePrompter{In: app.In, Out: app.Out})
				}
				return report(app, l.Message(), err)
			})
		},
	}
	cmd.Flags().StringVarP(&minutes, "minutes", "m", "", "minutes spent on the task")
	return cmd
}
