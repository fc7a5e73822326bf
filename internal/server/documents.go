package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/smallbiznis/clinicbill/internal/invoice/domain"
)

type voidDocumentRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) ListDocuments(c *gin.Context) {
	pageSize, err := parsePageSize(c.Query("page_size"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListDocumentRequest{
		Status:    c.Query("status"),
		PageToken: c.Query("page_token"),
		PageSize:  pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Documents, "page_info": resp.PageInfo})
}

func (s *Server) CreateDocument(c *gin.Context) {
	var req invoicedomain.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetDocumentByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateDocumentDetails(c *gin.Context) {
	var req invoicedomain.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.UpdateDetails(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AddDocumentItem(c *gin.Context) {
	var req invoicedomain.LineItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.AddItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateDocumentItem(c *gin.Context) {
	index, err := parseItemIndex(c.Param("index"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req invoicedomain.LineItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.UpdateItem(c.Request.Context(), c.Param("id"), index, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RemoveDocumentItem(c *gin.Context) {
	index, err := parseItemIndex(c.Param("index"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.RemoveItem(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecordDocumentPayment(c *gin.Context) {
	var req invoicedomain.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.RecordPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) FinalizeDocument(c *gin.Context) {
	resp, err := s.invoiceSvc.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConvertDocument(c *gin.Context) {
	resp, err := s.invoiceSvc.ConvertToInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkDocumentPaid(c *gin.Context) {
	resp, err := s.invoiceSvc.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) VoidDocument(c *gin.Context) {
	var req voidDocumentRequest
	// The reason is optional; an empty body, chunked or not, voids without one.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Void(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DuplicateDocument(c *gin.Context) {
	resp, err := s.invoiceSvc.DuplicateAsQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetDocumentSnapshot(c *gin.Context) {
	resp, err := s.invoiceSvc.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ViewDocument(c *gin.Context) {
	html, err := s.invoiceSvc.RenderHTML(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *Server) DownloadDocumentPDF(c *gin.Context) {
	file, err := s.invoiceSvc.RenderPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	writeAttachment(c, file)
}

func (s *Server) DownloadDocumentReceipt(c *gin.Context) {
	file, err := s.invoiceSvc.RenderReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	writeAttachment(c, file)
}

func (s *Server) GetDocumentShareMessage(c *gin.Context) {
	msg, err := s.invoiceSvc.ShareMessage(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": msg}})
}

func writeAttachment(c *gin.Context, file invoicedomain.RenderedFile) {
	filename := strings.ReplaceAll(file.Filename, `"`, "")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
