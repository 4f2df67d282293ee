package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/gudang-labs/warehouse-dashboard/internal/api"
	"github.com/gudang-labs/warehouse-dashboard/internal/gateway"
	"github.com/gudang-labs/warehouse-dashboard/internal/models"
	"github.com/gudang-labs/warehouse-dashboard/internal/session"
	"github.com/gudang-labs/warehouse-dashboard/internal/view"
	"github.com/gudang-labs/warehouse-dashboard/pkg/config"
	apperrors "github.com/gudang-labs/warehouse-dashboard/pkg/errors"
	"github.com/gudang-labs/warehouse-dashboard/pkg/logger"
)

const usage = `warehouse dashboard client

Usage:
  dashboard login -u <username-or-email> -p <password>
  dashboard logout
  dashboard whoami
  dashboard overview
  dashboard logs [-page N] [-limit N] [-search S] [-sort key] [-order asc|desc] [-from YYYY-MM-DD] [-to YYYY-MM-DD]
  dashboard browse
  dashboard log -id N
  dashboard users [-role kepala_gudang|operasional|admin_logistik]
  dashboard performers [-search S]
  dashboard insights [-period weekly|monthly]
  dashboard report -from YYYY-MM-DD -to YYYY-MM-DD -type daily|weekly|monthly [-search S] [-export csv|pdf] [-dir DIR]
`

// app bundles the wired client stack for the subcommands.
type app struct {
	store   *session.Store
	auth    *api.AuthClient
	logs    *api.DailyLogsClient
	users   *api.UsersClient
	over    *api.OverviewClient
	perf    *api.PerformersClient
	insight *api.InsightsClient
	reports *api.ReportsClient
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	a, err := newApp(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to assemble client", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if apperrors.IsAuthFailure(err) {
			// The session store already dropped its state; the redirect to
			// the login screen is this program's call, made here.
			fmt.Fprintln(os.Stderr, "sesi berakhir, silakan login ulang: dashboard login -u <user> -p <password>")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, apperrors.Message(err))
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, logr *zap.Logger) (*app, error) {
	var storage session.Storage
	var err error
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		storage, err = session.NewRedisStorage(cfg.Redis, cfg.Session.RedisKey)
	default:
		storage, err = session.NewFileStorage(cfg.Session.FilePath)
	}
	if err != nil {
		return nil, err
	}

	auth := api.NewAuthClient(cfg.API.BaseURL, cfg.API.Timeout)
	store := session.NewStore(storage, auth, logr)
	gw := gateway.New(cfg.API.BaseURL, store,
		gateway.WithTimeout(cfg.API.Timeout),
		gateway.WithMetrics(gateway.NewMetrics()),
		gateway.WithLogger(logr),
	)

	return &app{
		store:   store,
		auth:    auth,
		logs:    api.NewDailyLogsClient(gw),
		users:   api.NewUsersClient(gw),
		over:    api.NewOverviewClient(gw),
		perf:    api.NewPerformersClient(gw),
		insight: api.NewInsightsClient(gw),
		reports: api.NewReportsClient(gw),
	}, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		a.store.Logout(ctx)
		fmt.Println("sesi dihapus")
		return nil
	case "whoami":
		return a.authed(ctx, func() error { return a.cmdWhoami() })
	case "overview":
		return a.authed(ctx, func() error { return a.cmdOverview(ctx) })
	case "logs":
		return a.authed(ctx, func() error { return a.cmdLogs(ctx, args) })
	case "browse":
		return a.authed(ctx, func() error { return a.cmdBrowse(ctx) })
	case "log":
		return a.authed(ctx, func() error { return a.cmdLogDetail(ctx, args) })
	case "users":
		return a.authed(ctx, func() error { return a.cmdUsers(ctx, args) })
	case "performers":
		return a.authed(ctx, func() error { return a.cmdPerformers(ctx, args) })
	case "insights":
		return a.authed(ctx, func() error { return a.cmdInsights(ctx, args) })
	case "report":
		return a.authed(ctx, func() error { return a.cmdReport(ctx, args) })
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("perintah tidak dikenal: %s", cmd)
	}
}

// authed restores the persisted session before running the command.
func (a *app) authed(ctx context.Context, fn func() error) error {
	a.store.Restore(ctx)
	if !a.store.IsAuthenticated() {
		return apperrors.ErrUnauthenticated
	}
	return fn()
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("u", "", "username or email")
	pass := fs.String("p", "", "password")
	fs.Parse(args) //nolint:errcheck

	res, err := a.auth.Login(ctx, models.LoginRequest{UsernameOrEmail: *user, Password: *pass})
	if err != nil {
		return err
	}
	if err := a.store.Login(ctx, &res.User, models.TokenPair{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}); err != nil {
		return err
	}
	fmt.Printf("masuk sebagai %s (%s)\n", res.User.FullName, models.RoleNames[res.User.Role])
	return nil
}

func (a *app) cmdWhoami() error {
	user := a.store.User()
	fmt.Printf("%s <%s> %s", user.FullName, user.Email, models.RoleNames[user.Role])
	if user.SubRole != nil {
		fmt.Printf(" / %s", models.SubRoleNames[user.SubRole.Name])
	}
	fmt.Println()
	return nil
}

func (a *app) cmdOverview(ctx context.Context) error {
	counts, err := a.over.Counts(ctx)
	if err != nil {
		return err
	}
	trend, err := a.over.Trend(ctx)
	if err != nil {
		return err
	}
	presence, err := a.insight.WorkerPresent(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Item hari ini     : %d\n", counts.TotalItemsToday)
	fmt.Printf("Operator hadir    : %d (absen %d)\n", counts.PresentWorkers, presence.Absent)
	fmt.Printf("Produktivitas     : %.1f%% (target %.0f%%)\n", counts.ProductivityActual, counts.ProductivityTarget)
	fmt.Printf("Rata-rata harian  : %.1f%%\n", trend.DailyAverage)
	fmt.Printf("Rata-rata mingguan: %.1f%%\n", trend.WeeklyAverage)
	fmt.Printf("Rata-rata bulanan : %.1f%%\n", trend.MonthlyAverage)

	recent, err := a.over.RecentLogs(ctx)
	if err != nil {
		return err
	}
	if len(recent) > 0 {
		fmt.Println("\nAktivitas terakhir:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TANGGAL\tBINNING\tPICKING\tOPERATOR")
		for _, r := range recent {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", r.LogDate.Format("02 Jan 2006"), r.BinningCount, r.PickingCount, r.TotalWorkers)
		}
		w.Flush() //nolint:errcheck
	}
	return nil
}

func (a *app) cmdLogs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("logs", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "page size")
	search := fs.String("search", "", "search term")
	sortKey := fs.String("sort", "logDate", "sort column")
	order := fs.String("order", "desc", "sort direction")
	from := fs.String("from", "", "start date (YYYY-MM-DD)")
	to := fs.String("to", "", "end date (YYYY-MM-DD)")
	fs.Parse(args) //nolint:errcheck

	q := models.ListQuery{
		Page:   *page,
		Limit:  *limit,
		Search: *search,
		Sort:   models.Sort{Key: *sortKey, Direction: models.SortDirection(*order)},
	}
	dateRange, err := parseRange(*from, *to)
	if err != nil {
		return err
	}
	q.DateRange = dateRange

	pageData, err := a.logs.List(ctx, q)
	if err != nil {
		return err
	}
	printLogs(pageData.Logs)
	totalPages := (pageData.Total + *limit - 1) / *limit
	fmt.Printf("halaman %d/%d, total %d log\n", *page, totalPages, pageData.Total)
	return nil
}

// cmdBrowse pages through the daily logs interactively. All filter state
// lives in the list view; every command maps to one of its transitions.
func (a *app) cmdBrowse(ctx context.Context) error {
	lv := view.New[models.DailyLog](func(ctx context.Context, q models.ListQuery) ([]models.DailyLog, int, error) {
		page, err := a.logs.List(ctx, q)
		if err != nil {
			return nil, 0, err
		}
		return page.Logs, page.Total, nil
	}, models.Sort{Key: "logDate", Direction: models.SortDesc})

	if err := lv.Reload(ctx); err != nil {
		return err
	}
	render := func() {
		if msg := lv.Err(); msg != "" {
			fmt.Println("error:", msg)
			return
		}
		printLogs(lv.Items())
		fmt.Printf("halaman %d/%d, total %d log, urut %s %s\n",
			lv.Page(), lv.TotalPages(), lv.TotalCount(), lv.Sort().Key, lv.Sort().Direction)
	}
	render()
	fmt.Println(`perintah: n(ext) p(rev) s <cari> o <kolom> z <ukuran> d <id> r q`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		var err error
		switch fields[0] {
		case "q":
			return nil
		case "n":
			err = lv.SetPage(ctx, lv.Page()+1)
		case "p":
			err = lv.SetPage(ctx, lv.Page()-1)
		case "s":
			err = lv.SetSearch(ctx, arg)
		case "o":
			err = lv.ToggleSort(ctx, arg)
		case "z":
			size, convErr := strconv.Atoi(arg)
			if convErr != nil {
				fmt.Println("ukuran halaman harus angka")
				continue
			}
			err = lv.SetPageSize(ctx, size)
		case "d":
			id, convErr := strconv.Atoi(arg)
			if convErr != nil {
				fmt.Println("id harus angka")
				continue
			}
			if err = a.logs.Delete(ctx, id); err == nil {
				err = lv.NotifyMutation(ctx)
			}
		case "r":
			err = lv.Reload(ctx)
		default:
			fmt.Println("perintah tidak dikenal")
			continue
		}
		if err != nil && apperrors.IsAuthFailure(err) {
			return err
		}
		render()
	}
}

func (a *app) cmdLogDetail(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	id := fs.Int("id", 0, "log id")
	fs.Parse(args) //nolint:errcheck
	if *id < 1 {
		return apperrors.New(apperrors.KindValidation, 0, "gunakan -id untuk memilih log")
	}

	detail, err := a.logs.Get(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("Log #%d %s\n", detail.ID, detail.LogDate.Format("02 Jan 2006"))
	fmt.Printf("Binning %d, Picking %d, Total %d, Produktivitas %.1f%%\n",
		detail.BinningCount, detail.PickingCount, detail.TotalItems, detail.Productivity)
	if detail.WorkNotes != "" {
		fmt.Println("Catatan:", detail.WorkNotes)
	}
	for _, att := range detail.Attendance {
		fmt.Printf("  - %s (%s)\n", att.OperatorName, models.SubRoleNames[att.OperatorSubRole])
	}
	return nil
}

func (a *app) cmdUsers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users", flag.ExitOnError)
	roleFlag := fs.String("role", "", "filter by role")
	fs.Parse(args) //nolint:errcheck

	var role *models.Role
	if *roleFlag != "" {
		candidate := models.Role(*roleFlag)
		if !candidate.Valid() {
			return apperrors.New(apperrors.KindValidation, 0, "role tidak dikenal: "+*roleFlag)
		}
		role = &candidate
	}

	users, err := a.users.List(ctx, role)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tNAMA\tROLE\tSUB-ROLE")
	for _, u := range users {
		subRole := "-"
		if u.SubRole != nil {
			subRole = models.SubRoleNames[u.SubRole.Name]
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.FullName, models.RoleNames[u.Role], subRole)
	}
	return w.Flush()
}

func (a *app) cmdPerformers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("performers", flag.ExitOnError)
	search := fs.String("search", "", "filter by operator name")
	fs.Parse(args) //nolint:errcheck

	performers, err := a.perf.List(ctx, *search)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OPERATOR\tTIM\tPRODUKTIVITAS\tHARI KERJA")
	for _, p := range performers {
		fmt.Fprintf(w, "%s\t%s\t%.1f%%\t%.0f\n",
			p.OperatorName, models.TeamCategoryNames[p.OperatorSubRole.TeamCategory],
			p.AvgMonthlyProductivity, p.AvgMonthlyWorkdays)
	}
	return w.Flush()
}

func (a *app) cmdInsights(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("insights", flag.ExitOnError)
	period := fs.String("period", models.PeriodWeekly, "weekly or monthly")
	fs.Parse(args) //nolint:errcheck

	bars, err := a.insight.WorkerPerformance(ctx, *period)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OPERATOR\tTOTAL ITEM")
	for _, b := range bars {
		fmt.Fprintf(w, "%s\t%d\n", b.OperatorName, b.TotalItems)
	}
	return w.Flush()
}

func (a *app) cmdReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	from := fs.String("from", "", "start date (YYYY-MM-DD)")
	to := fs.String("to", "", "end date (YYYY-MM-DD)")
	reportType := fs.String("type", "daily", "daily, weekly or monthly")
	search := fs.String("search", "", "filter by operator name")
	exportFormat := fs.String("export", "", "download as csv or pdf")
	dir := fs.String("dir", ".", "download directory")
	fs.Parse(args) //nolint:errcheck

	q := models.ReportQuery{
		StartDate: *from,
		EndDate:   *to,
		Type:      models.ReportType(*reportType),
		Search:    *search,
	}

	if *exportFormat != "" {
		out, err := a.reports.ExportFile(ctx, q, models.FileFormat(*exportFormat))
		if err != nil {
			return err
		}
		path := filepath.Join(*dir, out.Filename)
		if err := os.WriteFile(path, out.Data, 0o644); err != nil {
			return fmt.Errorf("simpan laporan: %w", err)
		}
		fmt.Printf("laporan tersimpan: %s (%d byte)\n", path, len(out.Data))
		return nil
	}

	rows, err := a.reports.Filter(ctx, q)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WAKTU\tOPERATOR\tBINNING\tPICKING\tTOTAL\tPRODUKTIVITAS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.1f%%\n",
			r.Time, r.OperatorName, r.BinningCount, r.PickingCount, r.TotalItems, r.Productivity)
	}
	return w.Flush()
}

func printLogs(logs []models.DailyLog) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTANGGAL\tBINNING\tPICKING\tTOTAL\tHADIR\tPRODUKTIVITAS")
	for _, l := range logs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%.1f%%\n",
			l.ID, l.LogDate.Format("02 Jan 2006"), l.BinningCount, l.PickingCount,
			l.TotalItems, len(l.Attendance), l.Productivity)
	}
	w.Flush() //nolint:errcheck
}

func parseRange(from, to string) (*models.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, apperrors.New(apperrors.KindValidation, 0, "gunakan -from dan -to bersamaan")
	}
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, 0, "tanggal -from tidak valid")
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, 0, "tanggal -to tidak valid")
	}
	return &models.DateRange{From: start, To: end}, nil
}
