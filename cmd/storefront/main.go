// Command storefront is a terminal client for the commerce backend. It keeps
// a persisted login between invocations and treats the backend as the single
// source of truth for cart contents.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/yashpandey06/E-Commerce-Application/internal/api"
	"github.com/yashpandey06/E-Commerce-Application/internal/app"
	"github.com/yashpandey06/E-Commerce-Application/internal/checkout"
	"github.com/yashpandey06/E-Commerce-Application/internal/config"
	apperrors "github.com/yashpandey06/E-Commerce-Application/internal/errors"
	"github.com/yashpandey06/E-Commerce-Application/internal/logger"
)

const usage = `Usage: storefront <command> [arguments]

Commands:
  signup    -email -username -password [-role]   register a new account
  login     -email -password                     log in and persist the session
  logout                                         clear the persisted session
  whoami                                         show the authenticated user
  refresh                                        rotate the persisted token pair
  products  [-skip] [-limit] [-category] [-search]
  product   <id>
  cart                                           show the cart
  cart-add  -product <id> [-qty N]
  cart-set  -item <id> -qty N                    qty 0 removes the item
  cart-rm   -item <id>
  checkout  [-method paypal] [-coupon CODE] [-shipping N] [-tax N] [-discount N]
  pay       -payment <id> -payer <id>            complete an approved payment
  orders    [-skip] [-limit]
  order     <id>
  cancel    <id>
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("storefront", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := application.Shutdown(context.Background()); err != nil {
			log.Warn("shutdown error", slog.String("error", err.Error()))
		}
	}()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	application.Start(ctx)

	if err := run(ctx, application, cfg, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", apperrors.Message(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, cfg *config.Config, command string, args []string) error {
	switch command {
	case "signup":
		return cmdSignup(ctx, a, args)
	case "login":
		return cmdLogin(ctx, a, args)
	case "logout":
		a.Session.Logout()
		fmt.Println("logged out")
		return nil
	case "whoami":
		return cmdWhoami(a)
	case "refresh":
		if err := a.Session.RefreshToken(ctx); err != nil {
			return err
		}
		fmt.Println("token refreshed")
		return nil
	case "products":
		return cmdProducts(ctx, a, args)
	case "product":
		return cmdProduct(ctx, a, args)
	case "cart":
		return cmdCartShow(ctx, a)
	case "cart-add":
		return cmdCartAdd(ctx, a, args)
	case "cart-set":
		return cmdCartSet(ctx, a, args)
	case "cart-rm":
		return cmdCartRemove(ctx, a, args)
	case "checkout":
		return cmdCheckout(ctx, a, cfg, args)
	case "pay":
		return cmdPay(ctx, a, args)
	case "orders":
		return cmdOrders(ctx, a, args)
	case "order":
		return cmdOrder(ctx, a, args)
	case "cancel":
		return cmdCancel(ctx, a, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdSignup(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	username := fs.String("username", "", "display name")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "", "account role (customer or vendor)")
	_ = fs.Parse(args)

	if err := a.Session.Signup(ctx, *email, *username, *password, *role); err != nil {
		return err
	}
	fmt.Printf("signed up and logged in as %s\n", a.Session.User().Username)
	return nil
}

func cmdLogin(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if err := a.Session.Login(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", a.Session.User().Username)
	return nil
}

func cmdWhoami(a *app.App) error {
	user := a.Session.User()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s <%s> (%s)\n", user.Username, user.Email, user.Role)
	return nil
}

func cmdProducts(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	skip := fs.Int("skip", 0, "items to skip")
	limit := fs.Int("limit", 20, "page size")
	category := fs.String("category", "", "filter by category")
	search := fs.String("search", "", "search term")
	_ = fs.Parse(args)

	page, err := a.API.ListProducts(ctx, api.ListProductsQuery{
		Skip: *skip, Limit: *limit, Category: *category, Search: *search,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY")
	for _, p := range page.Products {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%s\n", p.ID, p.Name, p.Price, p.Stock, p.Category)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("showing %d of %d products\n", len(page.Products), page.Total)
	return nil
}

func cmdProduct(ctx context.Context, a *app.App, args []string) error {
	id, err := positionalID(args, "product")
	if err != nil {
		return err
	}
	p, err := a.API.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s (#%d)\n  price: %.2f\n  stock: %d\n  category: %s\n  %s\n",
		p.Name, p.ID, p.Price, p.Stock, p.Category, p.Description)
	return nil
}

func cmdCartShow(ctx context.Context, a *app.App) error {
	if err := a.Cart.Refresh(ctx); err != nil {
		return err
	}

	items := a.Cart.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tQTY\tPRICE\tSUBTOTAL")
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%.2f\n",
			it.ID, it.Product.Name, it.Quantity, it.Product.Price,
			it.Product.Price*float64(it.Quantity))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d items, total %.2f\n", a.Cart.ItemCount(), a.Cart.Total())
	return nil
}

func cmdCartAdd(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("cart-add", flag.ExitOnError)
	product := fs.Int64("product", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	_ = fs.Parse(args)

	if err := a.Cart.AddItem(ctx, *product, *qty); err != nil {
		return err
	}
	fmt.Printf("added; cart now has %d items\n", a.Cart.ItemCount())
	return nil
}

func cmdCartSet(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("cart-set", flag.ExitOnError)
	item := fs.Int64("item", 0, "cart item id")
	qty := fs.Int("qty", 1, "new quantity; 0 removes the item")
	_ = fs.Parse(args)

	if err := a.Cart.UpdateQuantity(ctx, *item, *qty); err != nil {
		return err
	}
	fmt.Printf("updated; cart now has %d items\n", a.Cart.ItemCount())
	return nil
}

func cmdCartRemove(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("cart-rm", flag.ExitOnError)
	item := fs.Int64("item", 0, "cart item id")
	_ = fs.Parse(args)

	if err := a.Cart.RemoveItem(ctx, *item); err != nil {
		return err
	}
	fmt.Printf("removed; cart now has %d items\n", a.Cart.ItemCount())
	return nil
}

func cmdCheckout(ctx context.Context, a *app.App, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	method := fs.String("method", "paypal", "payment method")
	coupon := fs.String("coupon", "", "coupon code")
	shipping := fs.Float64("shipping", 0, "shipping cost")
	tax := fs.Float64("tax", 0, "tax amount")
	discount := fs.Float64("discount", 0, "discount amount")
	_ = fs.Parse(args)

	result, err := a.Checkout.Checkout(ctx, checkout.Input{
		PaymentMethod: *method,
		CouponCode:    *coupon,
		ReturnURL:     cfg.ReturnURL,
		CancelURL:     cfg.CancelURL,
		Shipping:      *shipping,
		Tax:           *tax,
		Discount:      *discount,
	})
	if err != nil {
		return err
	}

	if result.ApprovalURL != "" {
		fmt.Printf("order #%d awaiting payment approval\napprove at: %s\nthen run: storefront pay -payment %s -payer <payer-id>\n",
			result.OrderID, result.ApprovalURL, result.PaymentID)
		return nil
	}
	fmt.Printf("order #%d placed, total %.2f\n", result.OrderID, result.Total)
	return nil
}

func cmdPay(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	payment := fs.String("payment", "", "payment id")
	payer := fs.String("payer", "", "payer id from the approval redirect")
	_ = fs.Parse(args)

	result, err := a.Checkout.CompletePayment(ctx, *payment, *payer)
	if err != nil {
		return err
	}
	fmt.Printf("payment completed, order #%d confirmed\n", result.OrderID)
	return nil
}

func cmdOrders(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	skip := fs.Int("skip", 0, "orders to skip")
	limit := fs.Int("limit", 20, "page size")
	_ = fs.Parse(args)

	orders, err := a.API.ListOrders(ctx, *skip, *limit)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("no orders")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tPLACED")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", o.ID, o.Status, o.TotalAmount,
			o.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func cmdOrder(ctx context.Context, a *app.App, args []string) error {
	id, err := positionalID(args, "order")
	if err != nil {
		return err
	}
	o, err := a.API.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("order #%d: %s, total %.2f\n", o.ID, o.Status, o.TotalAmount)
	for _, it := range o.Items {
		fmt.Printf("  %dx %s @ %.2f\n", it.Quantity, it.ProductName, it.Price)
	}
	return nil
}

func cmdCancel(ctx context.Context, a *app.App, args []string) error {
	id, err := positionalID(args, "cancel")
	if err != nil {
		return err
	}
	if err := a.API.CancelOrder(ctx, id); err != nil {
		return err
	}
	fmt.Printf("order #%d cancelled\n", id)
	return nil
}

func positionalID(args []string, command string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: storefront %s <id>", command)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
