package form

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PostedFromGin reads the submitted body of a gin request. JSON bodies are
// wrapped with NewJSONBody; everything else is parsed as a form post.
// Requests without a body yield empty posted data.
func PostedFromGin(c *gin.Context) PostedData {
	if c == nil || c.Request == nil {
		return noPostedData{}
	}
	if strings.EqualFold(c.ContentType(), gin.MIMEJSON) {
		data, err := c.GetRawData()
		if err != nil {
			return noPostedData{}
		}
		return NewJSONBody(data)
	}
	if c.Request.Method == http.MethodGet {
		return noPostedData{}
	}
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		_ = c.Request.ParseMultipartForm(32 << 20)
	} else {
		_ = c.Request.ParseForm()
	}
	return URLValues(c.Request.PostForm)
}
