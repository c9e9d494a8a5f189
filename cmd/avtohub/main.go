// Command avtohub is a CLI client for the AvtoHub auto-service marketplace.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/avtohub/avtohub/internal/config"
	"github.com/avtohub/avtohub/internal/market"
	"github.com/avtohub/avtohub/internal/model"
	"github.com/avtohub/avtohub/internal/session"
	"github.com/avtohub/avtohub/internal/tokenstore"
	"github.com/avtohub/avtohub/internal/transport"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `avtohub CLI
Usage:
  avtohub [-api URL] [-timeout DUR] [-v] <cmd> [args]

Account:
  version
  register     -name N -email E [-password P] [-role user|business] [-phone P] [-business NAME]
  login        -email E [-password P]
  logout
  whoami
  profile      -name N [-phone P] [-business NAME] [-address A]
  passwd                                 (prompts for current and new password)

Vehicles:
  cars
  car-add      -make M -model M -year Y [-color C] [-plate P] [-vin V] [-fuel F] [-engine L] [-primary]
  car-edit     -id ID [same flags as car-add]
  car-rm       -id ID

Catalog:
  services     [-q TEXT] [-category C] [-city CITY] [-min N] [-max N] [-rating N] [-sort S] [-page N] [-limit N]
  service      -id ID
  categories
  my-services                            (business)
  service-add  -name N -category C -price P [...]   (business)
  service-edit -id ID [...]                         (business)
  service-rm   -id ID                               (business)

Orders:
  book         -service ID -car ID -date YYYY-MM-DD -time HH:MM [-notes TEXT]
  orders       [-status S] [-limit N]
  incoming     [-limit N]                (business)
  order        -id ID
  cancel       -id ID
  order-status -id ID -status S [-notes TEXT]       (business)
  review       -id ID -rating 1..5 [-comment TEXT]
`)
	os.Exit(2)
}

// app bundles everything a command needs, built once per run at the entry
// point so the session's lifecycle is visible instead of ambient.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	tokens  *tokenstore.Store
	api     *transport.Client
	session *session.Store
	cars    *market.Cars
	catalog *market.Catalog
	orders  *market.Orders

	// expired flips when the backend rejects a request as unauthorized
	// mid-command; the failure path reports the login guidance exactly once.
	expired bool
}

// newApp wires config, logging, the token store, the transport and the
// session store. authCmd suppresses the session-expired handling for the
// commands where a 401 means bad credentials, not a stale session.
func newApp(cfg *config.Config, authCmd bool) *app {
	var log *zap.Logger
	if cfg.Verbose {
		log, _ = zap.NewDevelopment()
	} else {
		log = zap.NewNop()
	}

	a := &app{cfg: cfg, log: log}
	a.tokens = tokenstore.New(cfg.ConfigDir)

	opts := []transport.Option{
		transport.WithHTTPClient(newHTTPClient(cfg.Timeout)),
		transport.WithLogger(log),
	}
	if !authCmd {
		// explicit unauthorized event replaces the original's hidden
		// redirect: the credential is already erased, we only route
		opts = append(opts, transport.WithUnauthorizedHandler(func() {
			a.expired = true
			log.Debug("credential rejected by backend")
		}))
	}
	a.api = transport.New(cfg.APIURL, a.tokens, opts...)

	a.session = session.New(a.api, a.tokens, log)
	a.cars = market.NewCars(a.api)
	a.catalog = market.NewCatalog(a.api)
	a.orders = market.NewOrders(a.api)
	return a
}

// failureMessage picks the single message shown for a failed command: once a
// request has been rejected as unauthorized, the login guidance wins over the
// raw backend error.
func failureMessage(expired bool, err error) string {
	if expired {
		return session.MsgSessionExpired + " (avtohub login)"
	}
	return err.Error()
}

// fail reports a command failure, folding a mid-command credential rejection
// into one session-expired notice.
func (a *app) fail(err error) {
	fail(fmt.Errorf("%s", failureMessage(a.expired, err)))
}

// requireUser resolves the startup credential check and fails the command
// when nobody is signed in. The CLI analog of a guarded route.
func (a *app) requireUser(ctx context.Context) *model.UserRecord {
	a.session.Initialize(ctx)
	u := a.session.User()
	if u == nil {
		if msg := a.session.Err(); msg != "" {
			fail(fmt.Errorf("%s (avtohub login)", msg))
		}
		fail(fmt.Errorf("not signed in (avtohub login)"))
	}
	return u
}

// requireBusiness additionally checks the account role.
func (a *app) requireBusiness(ctx context.Context) *model.UserRecord {
	u := a.requireUser(ctx)
	if u.Role != model.RoleBusiness {
		fail(fmt.Errorf("this command needs a business account"))
	}
	return u
}

func main() {
	api := flag.String("api", "", "backend base URL (overrides AVTOHUB_API_URL)")
	timeout := flag.Duration("timeout", 0, "request timeout (overrides AVTOHUB_TIMEOUT)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fail(err)
	}
	if *api != "" {
		cfg.APIURL = *api
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *verbose {
		cfg.Verbose = true
	}

	if cmd == "version" {
		fmt.Printf("avtohub %s (%s)\n", version, buildDate)
		return
	}

	authCmd := cmd == "login" || cmd == "register"
	a := newApp(cfg, authCmd)
	defer func() { _ = a.log.Sync() }()

	switch cmd {
	case "register":
		cmdRegister(ctx, a, args)
	case "login":
		cmdLogin(ctx, a, args)
	case "logout":
		a.session.Logout()
		fmt.Println("ok")
	case "whoami":
		printJSON(a.requireUser(ctx))
	case "profile":
		cmdProfile(ctx, a, args)
	case "passwd":
		cmdPasswd(ctx, a)

	case "cars":
		cmdCars(ctx, a)
	case "car-add":
		cmdCarAdd(ctx, a, args)
	case "car-edit":
		cmdCarEdit(ctx, a, args)
	case "car-rm":
		cmdCarRm(ctx, a, args)

	case "services":
		cmdServices(ctx, a, args)
	case "service":
		cmdService(ctx, a, args)
	case "categories":
		cmdCategories(ctx, a)
	case "my-services":
		cmdMyServices(ctx, a)
	case "service-add":
		cmdServiceAdd(ctx, a, args)
	case "service-edit":
		cmdServiceEdit(ctx, a, args)
	case "service-rm":
		cmdServiceRm(ctx, a, args)

	case "book":
		cmdBook(ctx, a, args)
	case "orders":
		cmdOrders(ctx, a, args)
	case "incoming":
		cmdIncoming(ctx, a, args)
	case "order":
		cmdOrder(ctx, a, args)
	case "cancel":
		cmdCancel(ctx, a, args)
	case "order-status":
		cmdOrderStatus(ctx, a, args)
	case "review":
		cmdReview(ctx, a, args)

	default:
		usage()
	}
}

// ---- helpers ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// promptPassword reads a password without echo, with a plain-read fallback
// when stdin is not a terminal (tests, pipes).
func promptPassword(label string) string {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fail(err)
		}
		return string(b)
	}
	var s string
	_, _ = fmt.Scanln(&s)
	return s
}
