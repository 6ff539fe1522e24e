package web

import (
	"fmt"

	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/stats"
	"github.com/shopspring/decimal"
)

// View models: JSON shapes rendered for the operator UI. Money fields carry
// both the raw decimal (for the UI to compute with) and a pre-formatted VND
// display string.

type productVM struct {
	domain.Product
	PriceDisplay string `json:"priceDisplay"`
}

type listingVM struct {
	Products   []productVM              `json:"products"`
	Page       int                      `json:"page"`
	TotalPages int                      `json:"totalPages"`
	Categories []catalog.CategoryOption `json:"categories"`
}

type cartLineVM struct {
	Product   productVM `json:"product"`
	Quantity  int       `json:"quantity"`
	LineTotal string    `json:"lineTotal"`
}

type cartVM struct {
	Lines       []cartLineVM `json:"lines"`
	ItemCount   int          `json:"itemCount"`
	Total       string       `json:"total"`
	SidebarOpen bool         `json:"sidebarOpen"`
	LastOrderID int64        `json:"lastOrderId,omitempty"`
}

type lookupVM struct {
	Mode              checkout.CustomerMode `json:"mode"`
	NeedsConfirmation bool                  `json:"needsConfirmation"`
	Customer          *customerVM           `json:"customer,omitempty"`
}

type customerVM struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Point   int    `json:"point"`
}

type submitVM struct {
	Order       domain.Order `json:"order"`
	RedirectURL string       `json:"redirectUrl,omitempty"`
	InvoicePath string       `json:"invoicePath,omitempty"`
}

type invoiceItemVM struct {
	domain.OrderItem
	UnitPriceDisplay string `json:"unitPriceDisplay"`
	LineTotalDisplay string `json:"lineTotalDisplay"`
}

type invoiceVM struct {
	Order        domain.Order    `json:"order"`
	Items        []invoiceItemVM `json:"items"`
	TotalDisplay string          `json:"totalDisplay"`
	PDFPath      string          `json:"pdfPath"`
}

type revenueRowVM struct {
	Bucket       string `json:"bucket"`
	Label        string `json:"label"`
	Display      string `json:"display"`
	Revenue      string `json:"revenue"`
	ShortAmount  string `json:"shortAmount"`
	OrderCount   int    `json:"orderCount"`
	DrillDownURL string `json:"drillDownUrl,omitempty"`
}

type revenueVM struct {
	From         string         `json:"from"`
	To           string         `json:"to"`
	Rows         []revenueRowVM `json:"rows"`
	TotalDisplay string         `json:"totalDisplay"`
	TotalOrders  int            `json:"totalOrders"`
}

type orderSummaryVM struct {
	domain.OrderSummary
	TotalDisplay string `json:"totalDisplay"`
}

type orderPageVM struct {
	Orders        []orderSummaryVM `json:"orders"`
	Page          int              `json:"page"`
	TotalPages    int              `json:"totalPages"`
	TotalElements int64            `json:"totalElements"`
	Last          bool             `json:"last"`
}

type topProductVM struct {
	domain.TopProduct
	RevenueDisplay string `json:"revenueDisplay"`
}

func newProductVM(p domain.Product) productVM {
	return productVM{Product: p, PriceDisplay: domain.FormatVND(p.Price)}
}

func newListingVM(listing catalog.Listing) listingVM {
	vm := listingVM{
		Products:   make([]productVM, 0, len(listing.Products)),
		Page:       listing.Page,
		TotalPages: listing.TotalPages,
		Categories: listing.Categories,
	}
	for _, p := range listing.Products {
		vm.Products = append(vm.Products, newProductVM(p))
	}
	return vm
}

func newCartVM(snapshot domain.CartSnapshot) cartVM {
	vm := cartVM{
		Lines:       make([]cartLineVM, 0, len(snapshot.Lines)),
		Total:       domain.FormatVND(snapshot.Total()),
		SidebarOpen: snapshot.SidebarOpen,
		LastOrderID: snapshot.LastOrderID,
	}
	for _, line := range snapshot.Lines {
		vm.ItemCount += line.Quantity
		vm.Lines = append(vm.Lines, cartLineVM{
			Product:   newProductVM(line.Product),
			Quantity:  line.Quantity,
			LineTotal: domain.FormatVND(line.LineTotal()),
		})
	}
	return vm
}

func newCustomerVM(user domain.User) *customerVM {
	return &customerVM{
		Name:    user.Name,
		Phone:   user.Phone,
		Address: user.Address,
		Point:   user.Point,
	}
}

func newInvoiceVM(order domain.Order) invoiceVM {
	vm := invoiceVM{
		Order:        order,
		Items:        make([]invoiceItemVM, 0, len(order.Items)),
		TotalDisplay: domain.FormatVND(order.TotalAmount),
		PDFPath:      fmt.Sprintf("/invoice/%d.pdf", order.ID),
	}
	for _, item := range order.Items {
		vm.Items = append(vm.Items, invoiceItemVM{
			OrderItem:        item,
			UnitPriceDisplay: domain.FormatVND(item.UnitPrice),
			LineTotalDisplay: domain.FormatVND(item.LineTotal),
		})
	}
	return vm
}

func newRevenueVM(rows []stats.ChartRow, from, to string) revenueVM {
	vm := revenueVM{
		From: from,
		To:   to,
		Rows: make([]revenueRowVM, 0, len(rows)),
	}
	total := decimal.Zero
	for _, row := range rows {
		rowVM := revenueRowVM{
			Bucket:      row.Bucket,
			Label:       row.BucketLabel,
			Display:     row.Display,
			Revenue:     row.Revenue.String(),
			ShortAmount: stats.ShortAmount(row.Revenue),
			OrderCount:  row.OrderCount,
		}
		if row.Queryable() {
			rowVM.DrillDownURL = "/api/stats/revenue/" + row.Range.APIFrom[:10] + "/orders"
		}
		vm.Rows = append(vm.Rows, rowVM)
		vm.TotalOrders += row.OrderCount
		total = total.Add(row.Revenue)
	}
	vm.TotalDisplay = domain.FormatVND(total)
	return vm
}

func newOrderPageVM(page domain.Page[domain.OrderSummary]) orderPageVM {
	vm := orderPageVM{
		Orders:        make([]orderSummaryVM, 0, len(page.Content)),
		Page:          page.Page,
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
		Last:          page.Last,
	}
	for _, summary := range page.Content {
		vm.Orders = append(vm.Orders, orderSummaryVM{
			OrderSummary: summary,
			TotalDisplay: domain.FormatVND(summary.TotalAmount),
		})
	}
	return vm
}

func newTopProductsVM(products []domain.TopProduct) []topProductVM {
	vms := make([]topProductVM, 0, len(products))
	for _, p := range products {
		vms = append(vms, topProductVM{
			TopProduct:     p,
			RevenueDisplay: domain.FormatVND(p.Revenue),
		})
	}
	return vms
}
