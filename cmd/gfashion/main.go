package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/HiQuang210/GFashion-Frontend-sub000/config"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/cart"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/domain"
	apperror "github.com/HiQuang210/GFashion-Frontend-sub000/internal/errors"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/cache"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/httpclient"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/logger"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/session"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/service/cartservice"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/service/catalogservice"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/service/orderservice"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/service/reviewservice"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/service/selectionservice"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/service/userservice"
)

func main() {
	// 1. Configuração e Inicialização
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	logg := logger.NewLogger(cfg.LogLevel)
	logg.Info("Configurações carregadas.", map[string]interface{}{"api": cfg.APIBaseURL})

	// 2. Sessão (memória ou arquivo cifrado, conforme config)
	var sess session.Store
	if cfg.SessionFile != "" {
		fileStore, err := session.NewFileStore(cfg.SessionFile, cfg.SessionPassphrase)
		if err != nil {
			logg.Fatal("Falha ao abrir o arquivo de sessão.", err)
		}
		sess = fileStore
	} else {
		sess = session.NewMemoryStore()
	}

	// 3. Cache do snapshot de carrinho (Redis para terminais
	// compartilhados, memória caso contrário)
	var cacheClient cache.Client
	if cfg.RedisAddr != "" {
		cacheClient = cache.NewRedisClient(cfg.RedisAddr)
		logg.Info("Cache Redis habilitado.", map[string]interface{}{"addr": cfg.RedisAddr})
	} else {
		cacheClient = cache.NewMemoryClient()
	}

	// 4. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: camada HTTP -> serviços -> seletor
	api := httpclient.New(cfg.APIBaseURL, cfg.HTTPTimeout, sess, logg, func() {
		fmt.Println("\nYour session has expired. Please login again.")
	})

	cartSvc := cartservice.NewService(api, cacheClient, cfg.CartCacheTTL, logg)
	catalogSvc := catalogservice.NewService(api, logg)
	orderSvc := orderservice.NewService(api, cartSvc, logg)
	reviewSvc := reviewservice.NewService(api, logg)
	userSvc := userservice.NewService(api, sess, logg)
	selector := selectionservice.NewSelector(cartSvc, logg)

	app := &app{
		cart:     cartSvc,
		catalog:  catalogSvc,
		orders:   orderSvc,
		reviews:  reviewSvc,
		users:    userSvc,
		selector: selector,
	}

	app.run()
}

// app agrupa os serviços para o loop de comandos do terminal.
type app struct {
	cart     *cartservice.Service
	catalog  *catalogservice.Service
	orders   *orderservice.Service
	reviews  *reviewservice.Service
	users    *userservice.Service
	selector *selectionservice.Selector

	// Produto carregado pelo último comando "product", alvo dos comandos
	// de seleção (select/+/-/add).
	current *domain.Product
}

func (a *app) run() {
	fmt.Println("GFashion storefront: type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			printHelp()
		case "login":
			a.login(ctx, scanner)
		case "logout":
			a.report(a.users.SignOut(ctx))
		case "products":
			a.listProducts(ctx)
		case "product":
			a.showProduct(ctx, args)
		case "select":
			a.selectVariant(ctx, args)
		case "+":
			a.selector.Increment()
			a.printSelector()
		case "-":
			a.selector.Decrement()
			a.printSelector()
		case "add":
			a.commit(ctx)
		case "cart":
			a.showCart(ctx)
		case "rm":
			a.removeItem(ctx, args)
		case "qty":
			a.setQuantity(ctx, args)
		case "checkout":
			a.checkout(ctx, scanner)
		case "orders":
			a.listOrders(ctx)
		case "reviews":
			a.listReviews(ctx, args)
		case "quit", "exit":
			return
		default:
			fmt.Println("Unknown command. Type 'help'.")
		}
	}
}

func printHelp() {
	fmt.Print(`Commands:
  login                    sign in
  logout                   sign out
  products                 list the catalog
  product <id>             show a product and its variants
  select <color> <size>    pick a variant of the current product
  +, -                     change the quantity to add
  add                      commit the selection to the cart
  cart                     show the cart and its summary
  qty <n> <productId> <color> <size>   set quantity of a cart line
  rm <productId> <color> <size>        remove a cart line
  checkout                 create an order from the cart
  orders                   list your orders
  reviews <productId>      list reviews of a product
  quit
`)
}

// report imprime a mensagem apresentável de um erro, ou "OK".
func (a *app) report(err error) {
	if err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	fmt.Println("OK")
}

func (a *app) login(ctx context.Context, scanner *bufio.Scanner) {
	fmt.Print("email: ")
	if !scanner.Scan() {
		return
	}
	email := strings.TrimSpace(scanner.Text())
	fmt.Print("password: ")
	if !scanner.Scan() {
		return
	}
	password := strings.TrimSpace(scanner.Text())

	user, err := a.users.SignIn(ctx, domain.Credentials{Email: email, Password: password})
	if err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	fmt.Printf("Welcome back, %s\n", user.Email)
}

func (a *app) listProducts(ctx context.Context) {
	products, err := a.catalog.List(ctx, domain.ProductFilter{Limit: 20})
	if err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	for _, p := range products {
		fmt.Printf("%s  %-30s %s\n", p.ID, p.Name, cart.FormatPrice(p.Price))
	}
}

func (a *app) showProduct(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: product <id>")
		return
	}
	p, err := a.catalog.Get(ctx, args[1])
	if err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	a.current = &p
	fmt.Printf("%s: %s\n", p.Name, cart.FormatPrice(p.Price))
	for _, v := range p.Variants {
		fmt.Printf("  color %s:", v.Color)
		for _, sz := range v.Sizes {
			fmt.Printf(" %s(stock %d)", sz.Size, sz.Stock)
		}
		fmt.Println()
	}
}

func (a *app) selectVariant(ctx context.Context, args []string) {
	if a.current == nil {
		fmt.Println("Load a product first (product <id>).")
		return
	}
	if len(args) < 3 {
		fmt.Println("usage: select <color> <size>")
		return
	}
	a.selector.Select(ctx, a.current, args[1], args[2])
	a.printSelector()
}

func (a *app) printSelector() {
	fmt.Printf("quantity %d (in cart %d, stock %d)\n",
		a.selector.Quantity(), a.selector.CurrentCartQuantity(), a.selector.AvailableStock())
	if msg := a.selector.ErrorMessage(); msg != "" {
		fmt.Println(msg)
	}
	if msg := a.selector.WarningMessage(); msg != "" {
		fmt.Println(msg)
	}
}

func (a *app) commit(ctx context.Context) {
	if a.selector.Commit(ctx) {
		fmt.Println("Added to cart")
		return
	}
	if msg := a.selector.ErrorMessage(); msg != "" {
		fmt.Println(msg)
	}
}

func (a *app) showCart(ctx context.Context) {
	items, err := a.cart.Fetch(ctx)
	if err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	for _, item := range items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		fmt.Printf("%-30s %s %s x%d  %s\n", name, item.Color, item.Size, item.Quantity, cart.FormatPrice(item.Subtotal()))
	}
	summary := cart.Summary(items)
	if summary.IsEmpty {
		fmt.Println("Your cart is empty")
		return
	}
	fmt.Printf("%d items: total %s\n", summary.TotalItems, summary.FormattedPrice)
}

func (a *app) removeItem(ctx context.Context, args []string) {
	if len(args) < 4 {
		fmt.Println("usage: rm <productId> <color> <size>")
		return
	}
	items, err := a.cart.Fetch(ctx)
	if err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	item, ok := cart.FindLineItem(items, args[1], args[2], args[3])
	if !ok {
		fmt.Println("Item not in cart")
		return
	}
	if _, err := a.cart.Remove(ctx, item); err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	fmt.Println("Removed")
}

func (a *app) setQuantity(ctx context.Context, args []string) {
	if len(args) < 5 {
		fmt.Println("usage: qty <n> <productId> <color> <size>")
		return
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println("usage: qty <n> <productId> <color> <size>")
		return
	}
	items, err := a.cart.Fetch(ctx)
	if err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	item, ok := cart.FindLineItem(items, args[2], args[3], args[4])
	if !ok {
		fmt.Println("Item not in cart")
		return
	}
	if _, err := a.cart.SetQuantity(ctx, item, n); err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	fmt.Println("Updated")
}

func (a *app) checkout(ctx context.Context, scanner *bufio.Scanner) {
	fmt.Print("payment method: ")
	if !scanner.Scan() {
		return
	}
	payment := strings.TrimSpace(scanner.Text())
	fmt.Print("address: ")
	if !scanner.Scan() {
		return
	}
	address := strings.TrimSpace(scanner.Text())

	order, err := a.orders.Checkout(ctx, domain.CheckoutRequest{
		PaymentMethod: payment,
		Address:       address,
	})
	if err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	fmt.Printf("Order %s created: total %s\n", order.ID, cart.FormatPrice(order.Total))
}

func (a *app) listOrders(ctx context.Context) {
	orders, err := a.orders.History(ctx)
	if err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	for _, o := range orders {
		fmt.Printf("%s  %-10s %s\n", o.ID, o.Status, cart.FormatPrice(o.Total))
	}
}

func (a *app) listReviews(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: reviews <productId>")
		return
	}
	reviews, err := a.reviews.List(ctx, args[1])
	if err != nil {
		fmt.Println(apperror.UserMessage(err))
		return
	}
	for _, r := range reviews {
		fmt.Printf("%d/5 %s: %s\n", r.Rating, r.UserName, r.Comment)
	}
}
