package dto

import (
	"net/http"
	bookingDto "resort/internal/domains/booking/model/dto"
	"strings"
)

const QueryFormat = "format"

type ReportRequest struct {
	Format string `validate:"required,oneof=csv pdf"`
	From   string `validate:"omitempty,isodate"`
	To     string `validate:"omitempty,isodate"`
}

func (r *ReportRequest) FromRequest(request *http.Request) {
	query := request.URL.Query()

	r.Format = strings.ToLower(query.Get(QueryFormat))
	if r.Format == "" {
		r.Format = "csv"
	}

	r.From = query.Get(bookingDto.QueryFrom)
	r.To = query.Get(bookingDto.QueryTo)
}

type ReportResponse struct {
	URL      string `json:"url"`
	Format   string `json:"format"`
	Bookings int    `json:"bookings"`
}
