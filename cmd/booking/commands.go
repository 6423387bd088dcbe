package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/sjson"
	"golang.org/x/sync/errgroup"

	"rcb-marathon/pkg/booking"
	"rcb-marathon/pkg/client"
	"rcb-marathon/pkg/common/clock"
)

// 并发拉取组别的上限
const categoryFetchLimit = 4

func runEvents(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	search := fs.String("search", "", "filter by name or location")
	openOnly := fs.Bool("open", true, "only events open for registration")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		events []client.Event
		err    error
	)
	if *openOnly {
		events, err = api.ListOpenEvents(ctx)
	} else {
		events, err = api.ListEvents(ctx)
	}
	if err != nil {
		return err
	}
	events = client.FilterEvents(events, *search)

	categories := make([][]client.Category, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(categoryFetchLimit)
	for i, e := range events {
		g.Go(func() error {
			cats, err := api.ListCategories(gctx, e.ID)
			if err != nil {
				// 单个赛事失败时只显示空列表
				log.Warn().Err(err).Int64("event", e.ID).Msg("Error fetching categories")
				return nil
			}
			categories[i] = cats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, e := range events {
		fmt.Printf("#%d %s (%s, %s)", e.ID, e.Name, e.Location, e.EventDate)
		if closes, err := time.Parse(time.RFC3339, e.RegistrationCloseDate); err == nil {
			fmt.Printf(" registration closes %s", humanize.Time(closes))
		}
		fmt.Println()
		for _, c := range categories[i] {
			fmt.Printf("    [%d] %s %s %s\n", c.ID, c.Name, humanize.Ftoa(c.Distance), c.Unit)
		}
	}
	log.Info().Int("events", len(events)).Msg("Listed events")
	return nil
}

// runSet 用法: set <draft> <field> <value> [<field> <value> ...]
func runSet(args []string) error {
	if len(args) < 3 || (len(args)-1)%2 != 0 {
		return errors.New("usage: booking set <draft> <field> <value> [<field> <value> ...]")
	}
	path, pairs := args[0], args[1:]

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		raw = []byte("{}")
	} else if err != nil {
		return err
	}

	var draft booking.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return fmt.Errorf("read draft: %w", err)
	}

	for i := 0; i < len(pairs); i += 2 {
		field, value := pairs[i], pairs[i+1]
		clearsCategory := field == "eventId" && strings.TrimSpace(value) != strings.TrimSpace(draft.EventID)
		if err := draft.Set(field, value); err != nil {
			return err
		}

		// 保留文件中其它内容，只改动对应字段
		if field == "hasDisability" {
			raw, err = sjson.SetBytes(raw, field, draft.HasDisability)
		} else {
			raw, err = sjson.SetBytes(raw, field, value)
		}
		if err != nil {
			return err
		}
		if clearsCategory {
			if raw, err = sjson.SetBytes(raw, "categoryId", ""); err != nil {
				return err
			}
			log.Info().Msg("Event changed, category cleared")
		}
	}

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return err
	}
	log.Info().Str("draft", path).Int("fields", len(pairs)/2).Msg("Draft updated")
	return nil
}

// runShow 用法: show <draft>，打印草稿及第一步是否填写完整
func runShow(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: booking show <draft>")
	}
	draft, err := readDraft(args[0])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))
	if err := booking.ValidateDetails(draft); err != nil {
		fmt.Fprintf(w, "step 1: %v\n", err)
	} else {
		fmt.Fprintln(w, "step 1: complete")
	}
	return nil
}

func readDraft(path string) (*booking.Draft, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	draft := &booking.Draft{}
	if err := json.Unmarshal(raw, draft); err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	return draft, nil
}

func runSubmit(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	path := fs.String("draft", "draft.json", "draft file")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	draft, err := readDraft(*path)
	if err != nil {
		return err
	}

	if *email != "" {
		if _, err := api.Login(ctx, *email, os.Getenv("RCB_PASSWORD")); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		log.Info().Str("email", *email).Msg("Logged in")
	}

	// 组别必须属于所选赛事
	lookup := booking.NewCategoryLookup(api, func(st booking.LookupState) {
		if st.Err != nil {
			log.Warn().Err(st.Err).Str("event", st.EventID).Msg("Categories unavailable")
		}
	})
	lookup.Select(ctx, draft.EventID)
	lookup.Wait()
	defer lookup.Close()
	if st := lookup.State(); !st.Has(draft.CategoryID) {
		return fmt.Errorf("category %q is not offered by event %q", draft.CategoryID, draft.EventID)
	}

	clk := clock.NewSystem()
	wizard := booking.NewWizard(draft,
		booking.WithClock(clk),
		booking.WithSubmitter(booking.NewSubmitter(api, booking.NewAssembler(clk)), api),
		booking.WithOnStepChange(func(s booking.Step) {
			log.Debug().Int("step", int(s)).Msg("Step changed")
		}),
		booking.WithRequireLogin(func() {
			log.Warn().Msg("Login required: pass -email and set RCB_PASSWORD")
		}),
	)

	if err := wizard.Advance(); err != nil {
		return err
	}
	id, err := wizard.Submit(ctx)
	if err != nil {
		return err
	}

	log.Info().Int64("registration", id).Str("confirmation", booking.ConfirmationPath(id)).Msg("Registration submitted")
	return printRegistration(ctx, api, id)
}

func runStatus(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	id := fs.Int64("id", 0, "registration id")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email != "" {
		if _, err := api.Login(ctx, *email, os.Getenv("RCB_PASSWORD")); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}
	return printRegistration(ctx, api, *id)
}

func printRegistration(ctx context.Context, api *client.Client, id int64) error {
	details, err := api.GetRegistration(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Registration #%d (%s)\n", details.ID, details.Status)
	fmt.Printf("  Runner:   %s <%s>\n", details.Runner.Name, details.Runner.Email)
	fmt.Printf("  Event:    %s on %s\n", details.Event.Name, details.Event.Date)
	fmt.Printf("  Category: %s %s %s\n", details.Category.Name, humanize.Ftoa(details.Category.Distance), details.Category.Unit)
	fmt.Printf("  Payment:  %s %s via %s (%s)\n",
		humanize.CommafWithDigits(details.Payment.Amount, 2), details.Payment.Status, details.Payment.Method, details.Payment.TransactionID)
	return nil
}
