package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-adp-console/internal/api"
	"github.com/noah-isme/sma-adp-console/internal/auth"
	"github.com/noah-isme/sma-adp-console/internal/controller"
	"github.com/noah-isme/sma-adp-console/internal/dashboard"
	"github.com/noah-isme/sma-adp-console/internal/schema"
	"github.com/noah-isme/sma-adp-console/internal/view"
	"github.com/noah-isme/sma-adp-console/pkg/config"
	"github.com/noah-isme/sma-adp-console/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	baseURL := cfg.API.BaseURL + cfg.API.Prefix

	session := auth.NewSession(baseURL, httpClient, logr)
	session.OnExpired(func() {
		fmt.Println("session expired, please log in again")
	})

	client := api.NewClient(baseURL, httpClient, session, logr)
	client.OnAuthExpired(session.Expire)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := bufio.NewScanner(os.Stdin)

	if !login(ctx, session, cfg, in) {
		return
	}

	controllers := make(map[string]*controller.EntityList)
	var names []string
	for _, sc := range schema.Catalog() {
		controllers[sc.Name] = controller.New(sc, client, nil, logr,
			controller.WithPageSize(cfg.API.PageSize))
		names = append(names, sc.Name)
	}

	var poller *dashboard.Poller
	if cfg.Dashboard.Enabled {
		poller = dashboard.NewPoller(baseURL, httpClient, session, cfg.Dashboard.RefreshInterval, logr)
		go poller.Run(ctx)
	}

	fmt.Printf("entities: %s\n", strings.Join(names, ", "))
	fmt.Println("commands: use <entity> | list | search <text> | filter <key> <value> | reset | next | prev | add | edit <row> | del <row> | dash | quit")

	var current *controller.EntityList
	for prompt(current); in.Scan(); prompt(current) {
		parts := strings.Fields(in.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "quit", "exit":
			if current != nil {
				current.Close()
			}
			return
		case "use":
			if len(args) != 1 || controllers[args[0]] == nil {
				fmt.Println("unknown entity")
				continue
			}
			current = controllers[args[0]]
			load(ctx, current)
		case "dash":
			printDashboard(poller)
		default:
			if current == nil {
				fmt.Println("pick an entity first: use <entity>")
				continue
			}
			runEntityCommand(ctx, current, cmd, args, in)
		}
	}
}

func prompt(current *controller.EntityList) {
	if current == nil {
		fmt.Print("> ")
		return
	}
	fmt.Printf("%s> ", current.Schema().Name)
}

func login(ctx context.Context, session *auth.Session, cfg *config.Config, in *bufio.Scanner) bool {
	email, password := cfg.Auth.Email, cfg.Auth.Password
	for {
		if email == "" {
			fmt.Print("email: ")
			if !in.Scan() {
				return false
			}
			email = strings.TrimSpace(in.Text())
		}
		if password == "" {
			fmt.Print("password: ")
			if !in.Scan() {
				return false
			}
			password = strings.TrimSpace(in.Text())
		}
		if err := session.Login(ctx, email, password); err != nil {
			fmt.Printf("login failed: %v\n", err)
			email, password = "", ""
			continue
		}
		return true
	}
}

func runEntityCommand(ctx context.Context, c *controller.EntityList, cmd string, args []string, in *bufio.Scanner) {
	switch cmd {
	case "list":
		load(ctx, c)
	case "search":
		c.Search(strings.Join(args, " "))
		render(c)
	case "filter":
		if len(args) < 1 {
			fmt.Println("usage: filter <key> [value]")
			return
		}
		value := ""
		if len(args) > 1 {
			value = strings.Join(args[1:], " ")
		}
		c.SetFilter(args[0], value)
		render(c)
	case "reset":
		c.ResetFilters()
		render(c)
	case "next":
		if err := c.NextPage(ctx); err == nil {
			render(c)
		} else {
			fmt.Println(c.LoadError())
		}
	case "prev":
		if err := c.PrevPage(ctx); err == nil {
			render(c)
		} else {
			fmt.Println(c.LoadError())
		}
	case "add":
		c.OpenCreate()
		editForm(ctx, c, in)
	case "edit":
		id, ok := rowID(c, args)
		if !ok {
			return
		}
		if err := c.OpenEdit(ctx, id); err != nil {
			fmt.Println(c.ActionError())
			return
		}
		editForm(ctx, c, in)
	case "del":
		id, ok := rowID(c, args)
		if !ok {
			return
		}
		err := c.Delete(ctx, id, func() bool {
			fmt.Print("delete? type yes to confirm: ")
			return in.Scan() && strings.TrimSpace(in.Text()) == "yes"
		})
		if err != nil {
			fmt.Println(c.ActionError())
			return
		}
		render(c)
	default:
		fmt.Println("unknown command")
	}
}

func rowID(c *controller.EntityList, args []string) (string, bool) {
	if len(args) != 1 {
		fmt.Println("usage: <cmd> <row>")
		return "", false
	}
	n, err := strconv.Atoi(args[0])
	rows := c.Rows()
	if err != nil || n < 1 || n > len(rows) {
		fmt.Println("no such row")
		return "", false
	}
	return rows[n-1].ID, true
}

// editForm prompts for every field, saves, and re-prompts on validation
// failure so no draft data is lost.
func editForm(ctx context.Context, c *controller.EntityList, in *bufio.Scanner) {
	sc := c.Schema()
	for {
		for _, f := range sc.Fields {
			label := f.Label
			if f.Required {
				label += "*"
			}
			if len(f.Options) > 0 {
				label += " (" + strings.Join(f.Options, "/") + ")"
			}
			fmt.Printf("%s [%s]: ", label, c.FieldValue(f.Key))
			if !in.Scan() {
				c.CloseForm()
				return
			}
			raw := strings.TrimSpace(in.Text())
			if raw == "" {
				continue
			}
			if f.Kind == schema.KindBoolean {
				c.SetChecked(f.Key, raw == "yes" || raw == "true" || raw == "y")
				continue
			}
			c.SetField(f.Key, raw)
		}

		if err := c.Save(ctx); err != nil {
			for key, msg := range c.ValidationErrors() {
				fmt.Printf("  %s: %s\n", key, msg)
			}
			if msg := c.ActionError(); msg != "" {
				fmt.Printf("  save failed: %s\n", msg)
			}
			fmt.Print("retry? (yes/no): ")
			if in.Scan() && strings.TrimSpace(in.Text()) == "yes" {
				continue
			}
			c.CloseForm()
			return
		}
		render(c)
		return
	}
}

func load(ctx context.Context, c *controller.EntityList) {
	if err := c.Load(ctx); err != nil && c.LoadError() != "" {
		fmt.Println(c.LoadError())
		return
	}
	render(c)
}

func render(c *controller.EntityList) {
	view.Table(os.Stdout, c.Schema(), c.Rows())
	page := c.Page()
	if page.TotalPages > 1 {
		fmt.Printf("page %d/%d (%d total)\n", page.PageIndex+1, page.TotalPages, page.TotalElements)
	}
}

func printDashboard(poller *dashboard.Poller) {
	if poller == nil {
		fmt.Println("dashboard disabled")
		return
	}
	snap := poller.Snapshot()
	if snap == nil {
		if err := poller.LastError(); err != nil {
			fmt.Printf("dashboard unavailable: %v\n", err)
			return
		}
		fmt.Println("dashboard not loaded yet")
		return
	}
	fmt.Printf("students: %d  teachers: %d  classes: %d\n", snap.Students, snap.Teachers, snap.Classes)
	fmt.Printf("tasks in progress: %d  completed: %d  avg progress: %.1f%%\n", snap.TasksInProgress, snap.TasksCompleted, snap.AverageProgress)
}
