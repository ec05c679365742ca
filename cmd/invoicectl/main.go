package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mutinyhq/paypal-go/ordered"
	"github.com/mutinyhq/paypal-go/paypal"
)

func main() {
	var (
		configPath    = flag.String("config", "paypal.yaml", "Path to YAML config file")
		action        = flag.String("action", "", "Action to perform: send-invoice, invoice-status, create-button")
		payerEmail    = flag.String("payer", "", "Payer email address")
		merchantEmail = flag.String("merchant", "", "Merchant email address")
		itemName      = flag.String("item", "", "Invoice item name")
		itemPrice     = flag.String("price", "", "Invoice item unit price")
		billerJSON    = flag.String("biller", "", "JSON file with biller info fields")
		invoiceID     = flag.String("invoice", "", "Invoice ID for invoice-status")
		buttonCode    = flag.String("code", "HOSTED", "Button code for create-button")
		buttonType    = flag.String("type", "BUYNOW", "Button type for create-button")
		buttonVars    = flag.String("vars", "", "Comma-separated L_BUTTONVAR entries (name=value)")
		verbose       = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *action == "" {
		fmt.Println("Usage: invoicectl -action=<action> [options]")
		fmt.Println("Actions:")
		fmt.Println("  send-invoice   - Create and send an invoice to a payer")
		fmt.Println("  invoice-status - Check whether an invoice has been paid")
		fmt.Println("  create-button  - Create a hosted payment button")
		os.Exit(1)
	}

	logger := buildLogger(*verbose)
	defer logger.Sync()

	cfg, err := paypal.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	client := paypal.NewClientWithDefaults(cfg, logger)
	ctx := context.Background()

	switch *action {
	case "send-invoice":
		if *payerEmail == "" || *merchantEmail == "" || *itemName == "" || *itemPrice == "" {
			logger.Fatal("send-invoice requires -payer, -merchant, -item and -price")
		}
		price, err := decimal.NewFromString(*itemPrice)
		if err != nil {
			logger.Fatal("Invalid price", zap.String("price", *itemPrice), zap.Error(err))
		}
		item := paypal.NewInvoiceItem(paypal.InvoiceItemParams{
			Name:      *itemName,
			UnitPrice: price,
		})
		biller, err := loadBillerInfo(*billerJSON)
		if err != nil {
			logger.Fatal("Failed to load biller info", zap.Error(err))
		}

		res, err := client.CreateAndSendInvoice(ctx, paypal.InvoiceParams{
			MerchantEmail: *merchantEmail,
			PayerEmail:    *payerEmail,
			MerchantInfo:  client.MerchantInfo(),
			BillerInfo:    biller,
			Items:         []*ordered.Map{item},
		})
		if err != nil {
			logger.Fatal("Failed to send invoice", zap.Error(err))
		}
		printJSON(res)

	case "invoice-status":
		if *invoiceID == "" {
			logger.Fatal("invoice-status requires -invoice")
		}
		paid, known, err := client.IsInvoicePaid(ctx, *invoiceID)
		if err != nil {
			logger.Fatal("Failed to fetch invoice", zap.Error(err))
		}
		switch {
		case !known:
			fmt.Println("status: unknown")
		case paid:
			fmt.Println("status: paid")
		default:
			fmt.Println("status: unpaid")
		}

	case "create-button":
		var vars []string
		if *buttonVars != "" {
			vars = strings.Split(*buttonVars, ",")
		}
		res, err := client.CreateButton(ctx, *buttonCode, *buttonType, vars)
		if err != nil {
			logger.Fatal("Failed to create button", zap.Error(err))
		}
		printJSON(res)

	default:
		logger.Fatal("Unknown action", zap.String("action", *action))
	}
}

func buildLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func loadBillerInfo(path string) (*ordered.Map, error) {
	if path == "" {
		return nil, fmt.Errorf("send-invoice requires -biller")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read biller file: %w", err)
	}
	var p paypal.BillerInfoParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to parse biller file: %w", err)
	}
	return paypal.NewBillerInfo(p), nil
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(out))
}
