package api

import (
	"bytes"
	"encoding/json"

	"github.com/noah-isme/sma-adp-console/internal/list"
	"github.com/noah-isme/sma-adp-console/internal/schema"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// The backends this console has to talk to answer list requests in three
// shapes: a Spring-style page object, the envelope the Go migration emits,
// and a bare array from the oldest endpoints. DecodePage normalises all of
// them into one canonical list.Page instead of duck-typing at every call
// site.

type springPage struct {
	Content       []schema.Entity `json:"content"`
	TotalElements *int            `json:"totalElements"`
	TotalPages    *int            `json:"totalPages"`
	Number        *int            `json:"number"`
	Size          *int            `json:"size"`
}

type envelopePage struct {
	Data       []schema.Entity `json:"data"`
	Pagination *struct {
		Page       int `json:"page"`
		PageSize   int `json:"page_size"`
		TotalCount int `json:"total_count"`
	} `json:"pagination"`
}

// DecodePage decodes a list response body. requestedPage and requestedSize
// fill in pagination metadata the bare-array shape cannot provide;
// requestedPage is zero-based.
func DecodePage(body []byte, requestedPage, requestedSize int) (list.Page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return list.Page{PageIndex: requestedPage, PageSize: requestedSize}, nil
	}

	if trimmed[0] == '[' {
		var items []schema.Entity
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return list.Page{}, appErrors.Wrap(err, appErrors.ErrDecode.Code, 0, appErrors.ErrDecode.Message)
		}
		return list.Page{
			Items:         items,
			PageIndex:     requestedPage,
			PageSize:      requestedSize,
			TotalElements: len(items),
			TotalPages:    1,
		}, nil
	}

	var spring springPage
	if err := json.Unmarshal(trimmed, &spring); err == nil && (spring.Content != nil || spring.TotalElements != nil) {
		page := list.Page{
			Items:         spring.Content,
			PageIndex:     requestedPage,
			PageSize:      requestedSize,
			TotalElements: len(spring.Content),
			TotalPages:    1,
		}
		if spring.TotalElements != nil {
			page.TotalElements = *spring.TotalElements
		}
		if spring.Number != nil {
			page.PageIndex = *spring.Number
		}
		if spring.Size != nil {
			page.PageSize = *spring.Size
		}
		if spring.TotalPages != nil {
			page.TotalPages = *spring.TotalPages
		}
		if page.Items == nil {
			page.Items = []schema.Entity{}
		}
		return page, nil
	}

	var envelope envelopePage
	if err := json.Unmarshal(trimmed, &envelope); err == nil && envelope.Data != nil {
		page := list.Page{
			Items:         envelope.Data,
			PageIndex:     requestedPage,
			PageSize:      requestedSize,
			TotalElements: len(envelope.Data),
			TotalPages:    1,
		}
		if p := envelope.Pagination; p != nil {
			if p.Page > 0 {
				page.PageIndex = p.Page - 1
			}
			if p.PageSize > 0 {
				page.PageSize = p.PageSize
			}
			page.TotalElements = p.TotalCount
			if p.PageSize > 0 {
				page.TotalPages = (p.TotalCount + p.PageSize - 1) / p.PageSize
			}
		}
		return page, nil
	}

	return list.Page{}, appErrors.Clone(appErrors.ErrDecode, "list response is neither a page object nor an array")
}
