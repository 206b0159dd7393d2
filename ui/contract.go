package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"digitpad/internal/errors"
)

// pageElement is one element the page script looks up at load time.
type pageElement struct {
	Selector    string
	Description string
}

// requiredElements is the contract between the index page and pad.js.
var requiredElements = []pageElement{
	{Selector: "#submit-button", Description: "submit button"},
	{Selector: "#clear-button", Description: "clear button"},
	{Selector: "canvas#draw-area", Description: "draw area canvas"},
	{Selector: "tbody#result-table-body", Description: "result table body"},
}

// CheckPageContract parses an HTML page and reports every required element
// that is missing.
func CheckPageContract(page io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return errors.Wrap(err, "failed to parse page")
	}

	var missing []string
	for _, el := range requiredElements {
		if doc.Find(el.Selector).Length() == 0 {
			missing = append(missing, fmt.Sprintf("%s (%s)", el.Selector, el.Description))
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.CodePageContract,
			"page is missing required elements: "+strings.Join(missing, ", "))
	}
	return nil
}
