package cli

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/mycontacts/internal/view"
	apimodel "gitlab.com/dirk.krummacker/mycontacts/pkg/model"
)

// benchCommand measures the average latency of create, update, get and delete for a growing
// number of contacts. It runs against the logged in account and removes what it creates.
//
// Usage example on the command line:
// > mycontacts login alice
// > mycontacts bench --sizes 100,500,1000
func (a *App) benchCommand() *cobra.Command {
	var sizes []int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure the API latency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, "  Elements      POST       PUT       GET    DELETE ")
			fmt.Fprintln(a.out, "---------------------------------------------------")
			for _, loops := range sizes {
				if loops <= 0 {
					return fmt.Errorf("invalid size %d", loops)
				}
				row, err := a.benchRound(cmd.Context(), loops)
				if err != nil {
					return err
				}
				view.RenderLatency(a.out, fmt.Sprint(loops), row...)
			}
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&sizes, "sizes", []int{10, 50, 100}, "number of contacts per round")
	return cmd
}

// benchRound returns the average POST, PUT, GET and DELETE latency over loops contacts. Contacts
// it created are deleted again even when the round fails.
func (a *App) benchRound(ctx context.Context, loops int) ([]time.Duration, error) {
	name, email, phone := "Marcus Antonius", "marcus@antonius.it", "+39 999 777 555"
	body := apimodel.ContactRequest{Name: &name, Email: &email, Phone: &phone}

	ids := make([]string, 0, loops)
	remaining := make(map[string]struct{}, loops)
	defer func() {
		for id := range remaining {
			_, _ = a.client.DeleteContact(ctx, id)
		}
	}()

	var post time.Duration
	for i := 0; i < loops; i++ {
		before := time.Now()
		contact, err := a.client.CreateContact(ctx, body)
		if err != nil {
			return nil, err
		}
		post += time.Since(before)
		ids = append(ids, contact.ID)
		remaining[contact.ID] = struct{}{}
	}

	put, err := callInLoop(ids, func(id string) error {
		_, err := a.client.UpdateContact(ctx, id, body)
		return err
	})
	if err != nil {
		return nil, err
	}
	get, err := callInLoop(ids, func(id string) error {
		_, err := a.client.GetContact(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	del, err := callInLoop(ids, func(id string) error {
		if _, err := a.client.DeleteContact(ctx, id); err != nil {
			return err
		}
		delete(remaining, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	n := time.Duration(loops)
	return []time.Duration{post / n, put / n, get / n, del / n}, nil
}

// callInLoop calls f for every id in random order and returns the total time spent.
func callInLoop(ids []string, f func(id string) error) (time.Duration, error) {
	shuffled := append([]string(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var total time.Duration
	for _, id := range shuffled {
		before := time.Now()
		if err := f(id); err != nil {
			return total, err
		}
		total += time.Since(before)
	}
	return total, nil
}
