package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"planner-go/internal/app"
	"planner-go/internal/config"
	"planner-go/internal/rules"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a PlannerApp. The caller must
// defer a.Close(). operation identifies the CLI command being run.
func newApp(operation string) (*app.PlannerApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewPlannerApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func optString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Local-first home renovation planner",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostID := uuid.New().String()
		cfg := config.NewConfig(hostID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:    %s\n", cfg.HostID)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Database:   %s (%s)\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Export Dir: %s\n", cfg.Backup.ExportDir)
		return nil
	},
}

// project command

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		currency, _ := cmd.Flags().GetString("currency")

		a, err := newApp("ProjectCreate")
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.Service().CreateProject(args[0], currency)
		if err != nil {
			return err
		}
		fmt.Printf("Created project %s\n", id)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ProjectList")
		if err != nil {
			return err
		}
		defer a.Close()

		projects, err := a.Service().ListProjects()
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}
		for _, p := range projects {
			fmt.Printf("%s  %-20s  %s\n", p.ID, p.Name, p.Currency)
		}
		return nil
	},
}

var projectClearCmd = &cobra.Command{
	Use:   "clear PROJECT_ID",
	Short: "Delete all data in a project, keeping the project itself",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !confirm(yes, fmt.Sprintf("Clear all data in project %s?", args[0])) {
			fmt.Println("Aborted.")
			return nil
		}

		a, err := newApp("ProjectClear")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().ClearProjectData(args[0]); err != nil {
			return err
		}
		fmt.Println("Project data cleared.")
		return nil
	},
}

// room command

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Manage rooms",
}

var roomAddCmd = &cobra.Command{
	Use:   "add PROJECT_ID NAME",
	Short: "Add a room",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RoomAdd")
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.Service().CreateRoom(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Created room %s\n", id)
		return nil
	},
}

var roomListCmd = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "List rooms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RoomList")
		if err != nil {
			return err
		}
		defer a.Close()

		rooms, err := a.Service().ListRooms(args[0])
		if err != nil {
			return err
		}
		if len(rooms) == 0 {
			fmt.Println("No rooms.")
			return nil
		}
		for _, r := range rooms {
			fmt.Printf("%s  %-20s  %-10s  budget %.2f\n", r.ID, r.Name, r.Status, r.BudgetPlanned)
		}
		return nil
	},
}

var roomDeleteCmd = &cobra.Command{
	Use:   "delete PROJECT_ID ROOM_ID",
	Short: "Delete a room and everything in it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !confirm(yes, fmt.Sprintf("Delete room %s and all its tasks, events, and expenses?", args[1])) {
			fmt.Println("Aborted.")
			return nil
		}

		a, err := newApp("RoomDelete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeleteRoom(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Room deleted.")
		return nil
	},
}

// task command

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add PROJECT_ID ROOM_ID TITLE",
	Short: "Add a task",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		phase, _ := cmd.Flags().GetString("phase")
		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetString("priority")
		description, _ := cmd.Flags().GetString("description")
		waitingReason, _ := cmd.Flags().GetString("waiting-reason")
		due, _ := cmd.Flags().GetString("due")
		start, _ := cmd.Flags().GetString("start")
		tradeTags, _ := cmd.Flags().GetStringSlice("trade-tags")
		customTags, _ := cmd.Flags().GetStringSlice("custom-tags")

		a, err := newApp("TaskAdd")
		if err != nil {
			return err
		}
		defer a.Close()

		input := rules.TaskInput{
			RoomID:        args[1],
			Title:         args[2],
			Description:   description,
			Phase:         phase,
			Status:        status,
			Priority:      priority,
			WaitingReason: optString(waitingReason),
			TradeTags:     tradeTags,
			CustomTags:    customTags,
		}
		id, err := a.Service().CreateTask(args[0], input, optString(due), optString(start))
		if err != nil {
			return err
		}
		fmt.Printf("Created task %s\n", id)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "List tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("TaskList")
		if err != nil {
			return err
		}
		defer a.Close()

		tasks, err := a.Service().ListTasks(args[0])
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}
		for _, t := range tasks {
			due := ""
			if t.DueAt != nil {
				due = "  due " + *t.DueAt
			}
			fmt.Printf("%s  %-12s  %-12s  %s%s\n", t.ID, t.Phase, t.Status, t.Title, due)
		}
		return nil
	},
}

var taskNextCmd = &cobra.Command{
	Use:   "next PROJECT_ID",
	Short: "Recommend what to work on next",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("TaskNext")
		if err != nil {
			return err
		}
		defer a.Close()

		recommended, err := a.Service().NextTasks(args[0], limit)
		if err != nil {
			return err
		}
		if len(recommended) == 0 {
			fmt.Println("Nothing actionable right now.")
			return nil
		}
		for _, r := range recommended {
			fmt.Printf("%3d  %-30s  %s (%s)\n", r.Score, r.Title, r.RoomName, strings.Join(r.Reasons, ", "))
		}
		return nil
	},
}

// event command

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage calendar events",
}

var eventAddCmd = &cobra.Command{
	Use:   "add PROJECT_ID TITLE STARTS_AT",
	Short: "Add an event",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventType, _ := cmd.Flags().GetString("type")
		roomID, _ := cmd.Flags().GetString("room")
		taskID, _ := cmd.Flags().GetString("task")
		company, _ := cmd.Flags().GetString("company")

		a, err := newApp("EventAdd")
		if err != nil {
			return err
		}
		defer a.Close()

		input := rules.EventInput{
			Title:    args[1],
			Type:     eventType,
			StartsAt: args[2],
			Company:  company,
		}
		id, err := a.Service().CreateEvent(args[0], input, optString(roomID), optString(taskID))
		if err != nil {
			return err
		}
		fmt.Printf("Created event %s\n", id)
		return nil
	},
}

var eventListCmd = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "List events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("EventList")
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.Service().ListEvents(args[0])
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No events.")
			return nil
		}
		for _, e := range events {
			fmt.Printf("%s  %s  %-10s  %s\n", e.ID, e.StartsAt, e.Type, e.Title)
		}
		return nil
	},
}

// expense command

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Manage expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add PROJECT_ID AMOUNT",
	Short: "Record an expense",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		date, _ := cmd.Flags().GetString("date")
		roomID, _ := cmd.Flags().GetString("room")
		taskID, _ := cmd.Flags().GetString("task")
		vendor, _ := cmd.Flags().GetString("vendor")
		notes, _ := cmd.Flags().GetString("notes")

		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parsing amount: %w", err)
		}

		a, err := newApp("ExpenseAdd")
		if err != nil {
			return err
		}
		defer a.Close()

		input := rules.ExpenseInput{
			Amount:     amount,
			Category:   category,
			IncurredOn: date,
			Vendor:     vendor,
			Notes:      notes,
		}
		id, err := a.Service().CreateExpense(args[0], input, optString(roomID), optString(taskID))
		if err != nil {
			return err
		}
		fmt.Printf("Created expense %s\n", id)
		return nil
	},
}

var expenseListCmd = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "List expenses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ExpenseList")
		if err != nil {
			return err
		}
		defer a.Close()

		expenses, err := a.Service().ListExpenses(args[0])
		if err != nil {
			return err
		}
		if len(expenses) == 0 {
			fmt.Println("No expenses.")
			return nil
		}
		for _, e := range expenses {
			vendor := ""
			if e.Vendor != nil {
				vendor = "  " + *e.Vendor
			}
			fmt.Printf("%s  %s  %-12s  %.2f%s\n", e.ID, e.IncurredOn, e.Category, e.Amount, vendor)
		}
		return nil
	},
}

// quote command

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Manage builder quotes",
}

var quoteAddCmd = &cobra.Command{
	Use:   "add PROJECT_ID TITLE BUILDER AMOUNT",
	Short: "Record a builder quote",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		currency, _ := cmd.Flags().GetString("currency")
		roomID, _ := cmd.Flags().GetString("room")
		scope, _ := cmd.Flags().GetString("scope")

		amount, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("parsing amount: %w", err)
		}

		a, err := newApp("QuoteAdd")
		if err != nil {
			return err
		}
		defer a.Close()

		input := rules.QuoteInput{
			Title:       args[1],
			BuilderName: args[2],
			Amount:      amount,
			Currency:    currency,
			Scope:       scope,
		}
		id, err := a.Service().CreateQuote(args[0], input, optString(roomID))
		if err != nil {
			return err
		}
		fmt.Printf("Created quote %s\n", id)
		return nil
	},
}

var quoteListCmd = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "List quotes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("QuoteList")
		if err != nil {
			return err
		}
		defer a.Close()

		quotes, err := a.Service().ListQuotes(args[0])
		if err != nil {
			return err
		}
		if len(quotes) == 0 {
			fmt.Println("No quotes.")
			return nil
		}
		for _, q := range quotes {
			marker := " "
			if q.Status == "selected" {
				marker = "*"
			}
			fmt.Printf("%s %s  %-20s  %-20s  %.2f %s\n", marker, q.ID, q.Title, q.BuilderName, q.Amount, q.Currency)
		}
		return nil
	},
}

var quoteSelectCmd = &cobra.Command{
	Use:   "select PROJECT_ID QUOTE_ID",
	Short: "Select a quote, deselecting any other",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("QuoteSelect")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().SelectQuote(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Quote selected.")
		return nil
	},
}

// insights command

var insightsCmd = &cobra.Command{
	Use:   "insights PROJECT_ID",
	Short: "Budget risk assessment for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxRooms, _ := cmd.Flags().GetInt("rooms")

		a, err := newApp("Insights")
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.Service().CostInsights(args[0], maxRooms)
		if err != nil {
			return err
		}

		fmt.Printf("Project: %s  planned %.2f  actual %.2f  variance %.2f\n",
			rules.RiskToTrafficLabel(summary.ProjectRisk),
			summary.ProjectPlanned, summary.ProjectActual, summary.ProjectVariance)
		for _, reason := range summary.Reasons {
			fmt.Printf("  - %s\n", reason)
		}
		for _, room := range summary.RoomRisks {
			fmt.Printf("%-6s %-20s  planned %.2f  actual %.2f\n",
				rules.RiskToTrafficLabel(room.Risk), room.RoomName, room.Planned, room.Actual)
			for _, reason := range room.Reasons {
				fmt.Printf("  - %s\n", reason)
			}
		}
		return nil
	},
}

// search command

var searchCmd = &cobra.Command{
	Use:   "search PROJECT_ID QUERY",
	Short: "Search tasks, events, and expenses",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, _ := cmd.Flags().GetString("room")
		status, _ := cmd.Flags().GetString("status")
		phase, _ := cmd.Flags().GetString("phase")
		category, _ := cmd.Flags().GetString("category")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		sortBy, _ := cmd.Flags().GetString("sort")

		a, err := newApp("Search")
		if err != nil {
			return err
		}
		defer a.Close()

		params := rules.SearchParams{
			Query:    args[1],
			RoomID:   roomID,
			Status:   status,
			Phase:    phase,
			Category: category,
			DateFrom: from,
			DateTo:   to,
			SortBy:   sortBy,
		}
		results, err := a.Service().Search(args[0], params)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, r := range results {
			date := r.Date
			if date == "" {
				date = "-"
			}
			fmt.Printf("%-7s  %s  %-30s  %-15s  %s\n", r.Kind, r.ID, r.Title, r.RoomName, date)
		}
		return nil
	},
}

// backup command

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export, validate, and restore project backups",
}

var backupExportCmd = &cobra.Command{
	Use:   "export PROJECT_ID",
	Short: "Export a project to a backup document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		a, err := newApp("BackupExport")
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.ExportBackupToFile(args[0], out)
		if err != nil {
			return err
		}
		fmt.Printf("Backup written to %s\n", path)
		fmt.Println("Backup data is unencrypted. Store and share it carefully.")
		return nil
	},
}

var backupValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a backup document without restoring it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("BackupValidate")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.ValidateBackupFile(args[0])
		if err != nil {
			return err
		}
		if !result.OK {
			return fmt.Errorf("invalid backup: %s", result.Reason)
		}
		fmt.Printf("Valid backup of project %s (%d rows, exported %s)\n",
			result.Backup.ProjectID, result.Backup.Payload.TotalRows(), result.Backup.ExportedAt)
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore PROJECT_ID FILE",
	Short: "Restore a project from a backup document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !confirm(yes, fmt.Sprintf("Replace all data in project %s with the contents of %s?", args[0], args[1])) {
			fmt.Println("Aborted.")
			return nil
		}

		a, err := newApp("BackupRestore")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RestoreBackupFromFile(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Restore complete. A pre-restore snapshot was saved.")
		return nil
	},
}

var backupSnapshotsCmd = &cobra.Command{
	Use:   "snapshots PROJECT_ID",
	Short: "List pre-restore snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("BackupSnapshots")
		if err != nil {
			return err
		}
		defer a.Close()

		snapshots, err := a.Service().ListSnapshots(args[0])
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			fmt.Println("No snapshots.")
			return nil
		}
		for _, s := range snapshots {
			fmt.Printf("%s  %s\n", s.ID, s.CreatedAt)
		}
		return nil
	},
}

// confirm prompts on the terminal before a destructive operation. A
// non-interactive stdin without --yes refuses rather than assumes.
func confirm(yes bool, prompt string) bool {
	if yes {
		return true
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Refusing to proceed without confirmation; pass --yes to override.")
		return false
	}

	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// project subcommands
	projectCmd.AddCommand(projectCreateCmd)
	projectCreateCmd.Flags().String("currency", "USD", "Project currency code")
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectClearCmd)
	projectClearCmd.Flags().Bool("yes", false, "Skip confirmation")

	// room subcommands
	roomCmd.AddCommand(roomAddCmd)
	roomCmd.AddCommand(roomListCmd)
	roomCmd.AddCommand(roomDeleteCmd)
	roomDeleteCmd.Flags().Bool("yes", false, "Skip confirmation")

	// task subcommands
	taskCmd.AddCommand(taskAddCmd)
	taskAddCmd.Flags().String("phase", "plan", "Phase: plan, buy, prep, install, finish, inspect_snag")
	taskAddCmd.Flags().String("status", "ideas", "Status: ideas, ready, in_progress, waiting, done")
	taskAddCmd.Flags().String("priority", "medium", "Priority: low, medium, high")
	taskAddCmd.Flags().String("description", "", "Task description")
	taskAddCmd.Flags().String("waiting-reason", "", "Why the task is waiting (required for status=waiting)")
	taskAddCmd.Flags().String("due", "", "Due timestamp")
	taskAddCmd.Flags().String("start", "", "Start timestamp")
	taskAddCmd.Flags().StringSlice("trade-tags", nil, "Trade tags")
	taskAddCmd.Flags().StringSlice("custom-tags", nil, "Custom tags")
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskNextCmd)
	taskNextCmd.Flags().IntP("limit", "n", 3, "Maximum number of recommendations")

	// event subcommands
	eventCmd.AddCommand(eventAddCmd)
	eventAddCmd.Flags().String("type", "appointment", "Event type")
	eventAddCmd.Flags().String("room", "", "Room id")
	eventAddCmd.Flags().String("task", "", "Task id")
	eventAddCmd.Flags().String("company", "", "Company name")
	eventCmd.AddCommand(eventListCmd)

	// expense subcommands
	expenseCmd.AddCommand(expenseAddCmd)
	expenseAddCmd.Flags().String("category", "materials", "Expense category")
	expenseAddCmd.Flags().String("date", "", "Date incurred (YYYY-MM-DD)")
	expenseAddCmd.Flags().String("room", "", "Room id")
	expenseAddCmd.Flags().String("task", "", "Task id")
	expenseAddCmd.Flags().String("vendor", "", "Vendor name")
	expenseAddCmd.Flags().String("notes", "", "Notes")
	expenseCmd.AddCommand(expenseListCmd)

	// quote subcommands
	quoteCmd.AddCommand(quoteAddCmd)
	quoteAddCmd.Flags().String("currency", "USD", "Quote currency code")
	quoteAddCmd.Flags().String("room", "", "Room id")
	quoteAddCmd.Flags().String("scope", "", "Scope of work")
	quoteCmd.AddCommand(quoteListCmd)
	quoteCmd.AddCommand(quoteSelectCmd)

	// insights
	insightsCmd.Flags().Int("rooms", 8, "Maximum number of rooms to show")

	// search
	searchCmd.Flags().String("room", "", "Filter by room id")
	searchCmd.Flags().String("status", "", "Filter tasks by status")
	searchCmd.Flags().String("phase", "", "Filter tasks by phase")
	searchCmd.Flags().String("category", "", "Filter expenses by category")
	searchCmd.Flags().String("from", "", "Earliest date to include")
	searchCmd.Flags().String("to", "", "Latest date to include")
	searchCmd.Flags().String("sort", rules.SearchSortRelevance, "Sort order: relevance, date, updated")

	// backup subcommands
	backupCmd.AddCommand(backupExportCmd)
	backupExportCmd.Flags().StringP("out", "o", "", "Output path (default: export dir)")
	backupCmd.AddCommand(backupValidateCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupRestoreCmd.Flags().Bool("yes", false, "Skip confirmation")
	backupCmd.AddCommand(backupSnapshotsCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(roomCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(expenseCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(backupCmd)
}
