package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/smallbiznis/clinicbill/internal/invoice/domain"
)

func (s *Server) GetReportSummary(c *gin.Context) {
	from, err := parseDateParam("from", c.Query("from"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	to, err := parseDateParam("to", c.Query("to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.Summary(c.Request.Context(), invoicedomain.SummaryRequest{
		Status: c.Query("status"),
		From:   from,
		To:     to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
