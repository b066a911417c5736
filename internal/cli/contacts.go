package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/mycontacts/internal/client"
	"gitlab.com/dirk.krummacker/mycontacts/internal/view"
	apimodel "gitlab.com/dirk.krummacker/mycontacts/pkg/model"
)

func (a *App) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show a summary of your contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			contacts, err := a.client.ListContacts(cmd.Context())
			if err != nil {
				return err
			}
			return view.RenderDashboard(a.out, user, view.Summarize(contacts, a.now()))
		},
	}
}

func (a *App) listCommand() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contacts, err := a.client.ListContacts(cmd.Context())
			if err != nil {
				return err
			}
			return view.RenderTable(a.out, view.Filter(contacts, search))
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only show contacts whose name, email or phone contains this")
	return cmd
}

func (a *App) addCommand() *cobra.Command {
	var name, email, phone string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.session.LoggedIn() {
				return client.ErrNotLoggedIn
			}
			for _, f := range []struct {
				label string
				value *string
			}{{"Name", &name}, {"Email", &email}, {"Phone", &phone}} {
				if *f.value != "" {
					continue
				}
				v, err := a.prompt(f.label)
				if err != nil {
					return err
				}
				*f.value = v
			}
			contact, err := a.client.CreateContact(cmd.Context(), apimodel.ContactRequest{
				Name: &name, Email: &email, Phone: &phone,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Contact %s created.\n", contact.ID)
			return view.RenderContact(a.out, contact)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	return cmd
}

func (a *App) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contact, err := a.client.GetContact(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return view.RenderContact(a.out, contact)
		},
	}
}

// editCommand sends only the flags that were given. Without flags it asks for every field,
// offering the current value.
func (a *App) editCommand() *cobra.Command {
	var name, email, phone string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req apimodel.ContactRequest
			flags := cmd.Flags()
			if flags.Changed("name") || flags.Changed("email") || flags.Changed("phone") {
				if flags.Changed("name") {
					req.Name = &name
				}
				if flags.Changed("email") {
					req.Email = &email
				}
				if flags.Changed("phone") {
					req.Phone = &phone
				}
			} else {
				current, err := a.client.GetContact(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if req, err = a.promptChanges(current); err != nil {
					return err
				}
			}
			contact, err := a.client.UpdateContact(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Contact updated.")
			return view.RenderContact(a.out, contact)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new full name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone number")
	return cmd
}

func (a *App) promptChanges(current apimodel.Contact) (apimodel.ContactRequest, error) {
	var req apimodel.ContactRequest
	for _, f := range []struct {
		label   string
		current string
		target  **string
	}{
		{"Name", current.Name, &req.Name},
		{"Email", current.Email, &req.Email},
		{"Phone", current.Phone, &req.Phone},
	} {
		v, err := a.promptDefault(f.label, f.current)
		if err != nil {
			return req, err
		}
		if v != f.current {
			*f.target = &v
		}
	}
	return req, nil
}

func (a *App) deleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := a.confirm(fmt.Sprintf("Delete contact %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.out, "Cancelled.")
					return nil
				}
			}
			contact, err := a.client.DeleteContact(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %s.\n", contact.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
