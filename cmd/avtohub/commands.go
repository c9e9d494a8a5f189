package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/avtohub/avtohub/internal/market"
	"github.com/avtohub/avtohub/internal/model"
	"github.com/avtohub/avtohub/internal/session"
	"github.com/avtohub/avtohub/internal/validate"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// ---- account ----

func cmdRegister(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password (prompted when omitted)")
	role := fs.String("role", "user", "account role: user|business")
	phone := fs.String("phone", "", "phone (individual accounts)")
	business := fs.String("business", "", "business name (business accounts)")
	_ = fs.Parse(args)

	if *password == "" {
		*password = promptPassword("password")
	}
	data := session.RegisterData{
		Name:         *name,
		Email:        *email,
		Password:     *password,
		Role:         model.Role(*role),
		Phone:        *phone,
		BusinessName: *business,
	}
	if err := validate.Struct(data); err != nil {
		fail(err)
	}

	res := a.session.Register(ctx, data)
	if !res.OK {
		fail(fmt.Errorf("%s", res.Error))
	}
	printJSON(res.User)
}

func cmdLogin(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password (prompted when omitted)")
	_ = fs.Parse(args)

	if *email == "" {
		fail(fmt.Errorf("need -email"))
	}
	if *password == "" {
		*password = promptPassword("password")
	}

	res := a.session.Login(ctx, *email, *password)
	if !res.OK {
		fail(fmt.Errorf("%s", res.Error))
	}
	fmt.Printf("signed in as %s (%s)\n", res.User.Name, res.User.Role)
}

func cmdProfile(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	phone := fs.String("phone", "", "phone")
	business := fs.String("business", "", "business name")
	address := fs.String("address", "", "address")
	_ = fs.Parse(args)

	u := a.requireUser(ctx)
	if *name == "" {
		*name = u.Name
	}

	data := session.ProfileData{Name: *name, Phone: *phone, BusinessName: *business, Address: *address}
	if err := validate.Struct(data); err != nil {
		fail(err)
	}
	res := a.session.UpdateProfile(ctx, data)
	if !res.OK {
		a.fail(fmt.Errorf("%s", res.Error))
	}
	printJSON(res.User)
}

func cmdPasswd(ctx context.Context, a *app) {
	a.requireUser(ctx)
	current := promptPassword("current password")
	next := promptPassword("new password")
	if len(next) < 6 {
		fail(fmt.Errorf("new password must be at least 6 characters"))
	}
	if next != promptPassword("repeat new password") {
		fail(fmt.Errorf("passwords do not match"))
	}

	res := a.session.ChangePassword(ctx, current, next)
	if !res.OK {
		a.fail(fmt.Errorf("%s", res.Error))
	}
	fmt.Println("ok")
}

// ---- vehicles ----

func cmdCars(ctx context.Context, a *app) {
	a.requireUser(ctx)
	cars, err := a.cars.List(ctx)
	if err != nil {
		a.fail(err)
	}
	printJSON(cars)
}

// carFlags declares the shared vehicle flags with neutral zero defaults, so
// an edit can tell "not given" from "given". Add-time defaults are applied
// separately by applyCarDefaults.
func carFlags(fs *flag.FlagSet) *market.CarInput {
	in := &market.CarInput{}
	fs.StringVar(&in.Make, "make", "", "manufacturer")
	fs.StringVar(&in.Model, "model", "", "model")
	fs.IntVar(&in.Year, "year", 0, "year (car-add defaults to the current year)")
	fs.StringVar(&in.Color, "color", "", "color")
	fs.StringVar(&in.LicensePlate, "plate", "", "license plate")
	fs.StringVar(&in.VIN, "vin", "", "VIN")
	fs.StringVar(&in.FuelType, "fuel", "", "fuel: petrol|diesel|electric|hybrid|gas (car-add defaults to petrol)")
	fs.Float64Var(&in.EngineSize, "engine", 0, "engine size, liters")
	fs.BoolVar(&in.IsPrimary, "primary", false, "mark as primary car")
	return in
}

// applyCarDefaults fills the add-form defaults for fields the user omitted.
func applyCarDefaults(in *market.CarInput) {
	if in.Year == 0 {
		in.Year = time.Now().Year()
	}
	if in.FuelType == "" {
		in.FuelType = "petrol"
	}
}

// setFlags records which flags were explicitly given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// mergeCarInput pre-fills an edit from the stored record: every flag the
// user did not give keeps its current value, the way the original edit form
// opens pre-filled.
func mergeCarInput(in *market.CarInput, set map[string]bool, cur model.Car) {
	if !set["make"] {
		in.Make = cur.Make
	}
	if !set["model"] {
		in.Model = cur.Model
	}
	if !set["year"] {
		in.Year = cur.Year
	}
	if !set["color"] {
		in.Color = cur.Color
	}
	if !set["plate"] {
		in.LicensePlate = cur.LicensePlate
	}
	if !set["vin"] {
		in.VIN = cur.VIN
	}
	if !set["fuel"] {
		in.FuelType = cur.FuelType
	}
	if !set["engine"] {
		in.EngineSize = cur.EngineSize
	}
	if !set["primary"] {
		in.IsPrimary = cur.IsPrimary
	}
}

func cmdCarAdd(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("car-add", flag.ExitOnError)
	in := carFlags(fs)
	_ = fs.Parse(args)

	a.requireUser(ctx)
	applyCarDefaults(in)
	if err := validate.Struct(*in); err != nil {
		fail(err)
	}
	car, err := a.cars.Add(ctx, *in)
	if err != nil {
		a.fail(err)
	}
	printJSON(car)
}

func cmdCarEdit(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("car-edit", flag.ExitOnError)
	id := fs.String("id", "", "car id")
	in := carFlags(fs)
	_ = fs.Parse(args)
	if *id == "" {
		fail(fmt.Errorf("need -id"))
	}

	a.requireUser(ctx)
	cars, err := a.cars.List(ctx)
	if err != nil {
		a.fail(err)
	}
	var cur *model.Car
	for i := range cars {
		if cars[i].ID == *id {
			cur = &cars[i]
			break
		}
	}
	if cur == nil {
		fail(fmt.Errorf("no car with id %s", *id))
	}
	mergeCarInput(in, setFlags(fs), *cur)

	if err := validate.Struct(*in); err != nil {
		fail(err)
	}
	car, err := a.cars.Update(ctx, *id, *in)
	if err != nil {
		a.fail(err)
	}
	printJSON(car)
}

func cmdCarRm(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("car-rm", flag.ExitOnError)
	id := fs.String("id", "", "car id")
	_ = fs.Parse(args)
	if *id == "" {
		fail(fmt.Errorf("need -id"))
	}

	a.requireUser(ctx)
	if err := a.cars.Remove(ctx, *id); err != nil {
		a.fail(err)
	}
	fmt.Println("ok")
}

// ---- catalog ----

func cmdServices(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("services", flag.ExitOnError)
	f := market.Filter{}
	fs.StringVar(&f.Search, "q", "", "search text")
	fs.StringVar(&f.Category, "category", "", "category")
	fs.StringVar(&f.City, "city", "", "city")
	fs.Float64Var(&f.MinPrice, "min", 0, "min price")
	fs.Float64Var(&f.MaxPrice, "max", 0, "max price")
	fs.Float64Var(&f.MinRating, "rating", 0, "min rating")
	fs.StringVar(&f.SortBy, "sort", "rating", "sort: rating|price|name")
	fs.IntVar(&f.Page, "page", 1, "page")
	fs.IntVar(&f.Limit, "limit", 12, "page size")
	_ = fs.Parse(args)

	// browsing the catalog needs no account
	res, err := a.catalog.Search(ctx, f)
	if err != nil {
		a.fail(err)
	}
	printJSON(res)
}

func cmdService(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("service", flag.ExitOnError)
	id := fs.String("id", "", "service id")
	_ = fs.Parse(args)
	if *id == "" {
		fail(fmt.Errorf("need -id"))
	}
	svc, err := a.catalog.Get(ctx, *id)
	if err != nil {
		a.fail(err)
	}
	printJSON(svc)
}

func cmdCategories(ctx context.Context, a *app) {
	cats, err := a.catalog.Categories(ctx)
	if err != nil {
		a.fail(err)
	}
	printJSON(cats)
}

func cmdMyServices(ctx context.Context, a *app) {
	a.requireBusiness(ctx)
	svcs, err := a.catalog.Mine(ctx)
	if err != nil {
		a.fail(err)
	}
	printJSON(svcs)
}

func serviceFlags(fs *flag.FlagSet) *market.ServiceInput {
	in := &market.ServiceInput{}
	fs.StringVar(&in.Name, "name", "", "service name")
	fs.StringVar(&in.Description, "desc", "", "description")
	fs.StringVar(&in.Category, "category", "", "category")
	fs.Float64Var(&in.Price, "price", 0, "price")
	fs.IntVar(&in.Duration, "duration", 0, "duration, minutes")
	fs.StringVar(&in.City, "city", "", "city")
	fs.StringVar(&in.Address, "address", "", "address")
	fs.StringVar(&in.WorkingHours, "hours", "", "working hours")
	fs.StringVar(&in.ContactPhone, "phone", "", "contact phone")
	return in
}

func cmdServiceAdd(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("service-add", flag.ExitOnError)
	in := serviceFlags(fs)
	_ = fs.Parse(args)

	a.requireBusiness(ctx)
	if err := validate.Struct(*in); err != nil {
		fail(err)
	}
	svc, err := a.catalog.Create(ctx, *in)
	if err != nil {
		a.fail(err)
	}
	printJSON(svc)
}

func cmdServiceEdit(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("service-edit", flag.ExitOnError)
	id := fs.String("id", "", "service id")
	in := serviceFlags(fs)
	_ = fs.Parse(args)
	if *id == "" {
		fail(fmt.Errorf("need -id"))
	}

	a.requireBusiness(ctx)
	if err := validate.Struct(*in); err != nil {
		fail(err)
	}
	svc, err := a.catalog.Update(ctx, *id, *in)
	if err != nil {
		a.fail(err)
	}
	printJSON(svc)
}

func cmdServiceRm(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("service-rm", flag.ExitOnError)
	id := fs.String("id", "", "service id")
	_ = fs.Parse(args)
	if *id == "" {
		fail(fmt.Errorf("need -id"))
	}

	a.requireBusiness(ctx)
	if err := a.catalog.Delete(ctx, *id); err != nil {
		a.fail(err)
	}
	fmt.Println("ok")
}

// ---- orders ----

func cmdBook(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	in := market.OrderInput{}
	fs.StringVar(&in.ServiceID, "service", "", "service id")
	fs.StringVar(&in.CarID, "car", "", "car id")
	fs.StringVar(&in.ScheduledDate, "date", "", "date YYYY-MM-DD")
	fs.StringVar(&in.PreferredTime, "time", "", "time HH:MM")
	fs.StringVar(&in.UserNotes, "notes", "", "notes for the workshop")
	_ = fs.Parse(args)

	a.requireUser(ctx)
	if err := validate.Struct(in); err != nil {
		fail(err)
	}
	ord, err := a.orders.Create(ctx, in)
	if err != nil {
		a.fail(err)
	}
	printJSON(ord)
}

func cmdOrders(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	status := fs.String("status", "all", "filter by status")
	limit := fs.Int("limit", 10, "max orders")
	_ = fs.Parse(args)

	a.requireUser(ctx)
	orders, err := a.orders.My(ctx, *status, *limit)
	if err != nil {
		a.fail(err)
	}
	printJSON(orders)
}

func cmdIncoming(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("incoming", flag.ExitOnError)
	limit := fs.Int("limit", 20, "max orders")
	_ = fs.Parse(args)

	a.requireBusiness(ctx)
	orders, err := a.orders.Incoming(ctx, *limit)
	if err != nil {
		a.fail(err)
	}
	printJSON(orders)
}

func cmdOrder(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	id := fs.String("id", "", "order id")
	_ = fs.Parse(args)
	if *id == "" {
		fail(fmt.Errorf("need -id"))
	}

	a.requireUser(ctx)
	ord, err := a.orders.Get(ctx, *id)
	if err != nil {
		a.fail(err)
	}
	printJSON(ord)
}

// cmdCancel lets the customer withdraw their own booking; business-side
// transitions go through order-status.
func cmdCancel(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	id := fs.String("id", "", "order id")
	_ = fs.Parse(args)
	if *id == "" {
		fail(fmt.Errorf("need -id"))
	}

	a.requireUser(ctx)
	ord, err := a.orders.Cancel(ctx, *id)
	if err != nil {
		a.fail(err)
	}
	printJSON(ord)
}

func cmdOrderStatus(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("order-status", flag.ExitOnError)
	id := fs.String("id", "", "order id")
	status := fs.String("status", "", "new status")
	notes := fs.String("notes", "", "notes for the customer")
	_ = fs.Parse(args)
	if *id == "" || *status == "" {
		fail(fmt.Errorf("need -id and -status"))
	}

	a.requireBusiness(ctx)
	ord, err := a.orders.SetStatus(ctx, *id, *status, *notes)
	if err != nil {
		a.fail(err)
	}
	printJSON(ord)
}

func cmdReview(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	id := fs.String("id", "", "order id")
	in := market.ReviewInput{}
	fs.IntVar(&in.Rating, "rating", 0, "rating 1..5")
	fs.StringVar(&in.Comment, "comment", "", "comment")
	_ = fs.Parse(args)
	if *id == "" {
		fail(fmt.Errorf("need -id"))
	}

	a.requireUser(ctx)
	if err := validate.Struct(in); err != nil {
		fail(err)
	}
	if err := a.orders.Review(ctx, *id, in); err != nil {
		a.fail(err)
	}
	fmt.Println("ok")
}
