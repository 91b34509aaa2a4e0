package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Geocoder answers whether a free-text place name refers to a location in
// Denmark. The production implementation queries GeoNames; tests stub it.
type Geocoder interface {
	InDenmark(ctx context.Context, place string) (bool, error)
}

const defaultGeoBaseURL = "https://www.geonames.org"

// GeoClient looks place names up on the GeoNames search page and reads the
// "Country" column of the result table. Any malformed or empty response
// counts as "not in Denmark" rather than an error; only transport failures
// surface to the caller.
type GeoClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewGeoClient() *GeoClient {
	return &GeoClient{
		BaseURL: defaultGeoBaseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *GeoClient) InDenmark(ctx context.Context, place string) (bool, error) {
	endpoint := fmt.Sprintf("%s/search.html?q=%s&country=", g.BaseURL, url.QueryEscape(place))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return false, nil
	}

	country := resultCountry(doc)
	return strings.Contains(strings.ToLower(country), "denmark"), nil
}

// resultCountry extracts the first non-empty value under the "Country" header
// of the GeoNames result table ("restable"). Taking the first populated cell
// rather than a fixed row index is deliberate: GeoNames sometimes pads the
// table with blank or advertisement rows, and a positional read would miss
// the top hit. Do not "simplify" this to rows[headerRow+2]. Returns "" when
// the table or the column is absent.
func resultCountry(doc *html.Node) string {
	table := findTableByClass(doc, "restable")
	if table == nil {
		return ""
	}

	rows := tableRows(table)
	headerRow, countryCol := -1, -1
	for i, row := range rows {
		for j, cell := range row {
			if strings.EqualFold(strings.TrimSpace(cell), "country") {
				headerRow, countryCol = i, j
				break
			}
		}
		if countryCol >= 0 {
			break
		}
	}
	if countryCol < 0 {
		return ""
	}

	for _, row := range rows[headerRow+1:] {
		if countryCol < len(row) {
			if value := strings.TrimSpace(row[countryCol]); value != "" {
				return value
			}
		}
	}
	return ""
}

func findTableByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		for _, attr := range n.Attr {
			if attr.Key == "class" && strings.Contains(attr.Val, class) {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTableByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func tableRows(table *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, nodeText(c))
				}
			}
			rows = append(rows, cells)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return rows
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}
