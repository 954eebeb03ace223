package http

import (
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services/financial"
	"marketplace/internal/core/domain/services/transition"
)

// Wire types of openapi.yaml. Field names follow the schema properties.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
}

type File struct {
	Id         string     `json:"id"`
	Name       string     `json:"name"`
	Size       int64      `json:"size,omitempty"`
	Url        string     `json:"url"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}

type NewOrder struct {
	Number           string    `json:"number"`
	ClientId         string    `json:"clientId,omitempty"`
	Discipline       string    `json:"discipline,omitempty"`
	PaperType        string    `json:"paperType,omitempty"`
	CitationFormat   string    `json:"citationFormat,omitempty"`
	Pages            int       `json:"pages"`
	Words            int       `json:"words,omitempty"`
	Deadline         time.Time `json:"deadline"`
	Urgency          string    `json:"urgency,omitempty"`
	Publish          bool      `json:"publish,omitempty"`
	RequirementFiles []File    `json:"requirementFiles,omitempty"`
}

type ActionRequest struct {
	Action string            `json:"action"`
	Role   string            `json:"role"`
	Fields map[string]string `json:"fields,omitempty"`
	Files  []File            `json:"files,omitempty"`
}

type TransitionOption struct {
	Action   string   `json:"action"`
	To       string   `json:"to"`
	Required []string `json:"required,omitempty"`
}

type Order struct {
	Order       order.State        `json:"order"`
	NextActions []TransitionOption `json:"nextActions"`
}

type OrderSummary struct {
	Id                  string    `json:"id"`
	Number              string    `json:"number"`
	Status              string    `json:"status"`
	WriterId            string    `json:"writerId,omitempty"`
	Deadline            time.Time `json:"deadline"`
	TotalPrice          int64     `json:"totalPrice"`
	FineAmount          int64     `json:"fineAmount"`
	Currency            string    `json:"currency"`
	IsOverdue           bool      `json:"isOverdue"`
	NeedsAdminAttention bool      `json:"needsAdminAttention"`
	Version             int64     `json:"version"`
}

type Quote struct {
	Pages       int    `json:"pages"`
	Urgency     string `json:"urgency"`
	RatePerPage int64  `json:"ratePerPage"`
	BasePrice   int64  `json:"basePrice"`
	Multiplier  string `json:"multiplier"`
	TotalPrice  int64  `json:"totalPrice"`
	Currency    string `json:"currency"`
}

func (f File) toDomain() order.File {
	file := order.File{ID: f.Id, Name: f.Name, Size: f.Size, URL: f.Url}
	if f.UploadedAt != nil {
		file.UploadedAt = f.UploadedAt.UTC()
	}
	return file
}

func filesToDomain(files []File) []order.File {
	if len(files) == 0 {
		return nil
	}
	out := make([]order.File, len(files))
	for i, f := range files {
		out[i] = f.toDomain()
	}
	return out
}

func (n NewOrder) details() order.Details {
	return order.Details{
		Number:           n.Number,
		ClientID:         n.ClientId,
		Discipline:       n.Discipline,
		PaperType:        n.PaperType,
		CitationFormat:   n.CitationFormat,
		Pages:            n.Pages,
		Words:            n.Words,
		Deadline:         n.Deadline.UTC(),
		RequirementFiles: filesToDomain(n.RequirementFiles),
	}
}

func toTransitionOptions(options []transition.Option) []TransitionOption {
	out := make([]TransitionOption, len(options))
	for i, o := range options {
		out[i] = TransitionOption{Action: o.Action.String(), To: o.To.String(), Required: o.Required}
	}
	return out
}

func toOrderSummary(row queries.GetActiveOrdersQueryResponse) OrderSummary {
	return OrderSummary{
		Id:                  row.ID.String(),
		Number:              row.Number,
		Status:              row.Status.String(),
		WriterId:            row.WriterID,
		Deadline:            row.Deadline,
		TotalPrice:          row.TotalPrice,
		FineAmount:          row.FineAmount,
		Currency:            row.Currency,
		IsOverdue:           row.IsOverdue,
		NeedsAdminAttention: row.NeedsAdminAttention,
		Version:             row.Version,
	}
}

func toQuote(q financial.Quote) Quote {
	return Quote{
		Pages:       q.Pages,
		Urgency:     string(q.Urgency),
		RatePerPage: q.RatePerPage,
		BasePrice:   q.BasePrice,
		Multiplier:  q.Multiplier.String(),
		TotalPrice:  q.TotalPrice,
		Currency:    q.Currency,
	}
}
