package storefront

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pricelens/backend/internal/domain"
	"golang.org/x/net/html"
)

const (
	maxCards      = 2000
	maxNameLength = 200
)

// Selectors for VTEX stores and common shop templates
const (
	cardSelector = `[data-testid="product-summary-container"], .vtex-product-summary-2-x-container, ` +
		`.product-card, .shelf-item, .product, [itemtype*="Product"]`
	priceSelector = `.vtex-product-price-1-x-sellingPriceValue, .best-price, .price, [data-price], ` +
		`.vtex-product-price-1-x-currencyInteger`
)

var nameSelectors = []string{
	`[data-testid="product-name"]`,
	`.vtex-product-summary-2-x-productBrand`,
	`.product-title`,
	`.name`,
	`h3`,
	`h2`,
	`[itemprop="name"]`,
}

// ExtractCards parses a search page and returns its product cards, with
// duplicates (same name and price to the cent) removed. Cards without a name
// or a valid price are skipped.
func ExtractCards(r io.Reader) ([]domain.ProductCard, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var cards []domain.ProductCard
	seen := map[string]bool{}

	doc.Find(cardSelector).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCards {
			return false
		}

		name := cardName(card)
		price, ok := cardPrice(card)
		if name == "" || !ok {
			return true
		}

		dedupKey := fmt.Sprintf("%s|%.2f", name, price)
		if !seen[dedupKey] {
			seen[dedupKey] = true
			cards = append(cards, domain.ProductCard{Name: name, Price: price})
		}
		return true
	})

	return cards, nil
}

func cardName(card *goquery.Selection) string {
	for _, sel := range nameSelectors {
		if text := spacedText(card.Find(sel).First()); text != "" {
			return truncate(text, maxNameLength)
		}
	}
	return truncate(spacedText(card), maxNameLength)
}

func cardPrice(card *goquery.Selection) (float64, bool) {
	if content, ok := card.Find(`meta[itemprop="price"]`).First().Attr("content"); ok {
		if v, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(content), ",", ".", 1), 64); err == nil && domain.ValidPrice(v) {
			return v, true
		}
	}

	el := card.Find(priceSelector).First()
	if el.Length() == 0 {
		return 0, false
	}
	return domain.ParseMoney(strings.TrimSpace(el.Text()))
}

// spacedText joins the text nodes under the selection with single spaces so
// adjacent elements ("<b>Arroz</b><i>5kg</i>") do not glue words together.
func spacedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, strings.Fields(n.Data)...)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}
