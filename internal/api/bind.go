package api

import (
	"errors"
	"io"
	"mime"

	"github.com/labstack/echo/v4"

	"recipe-service/internal/entity"
)

// bindDocument reads the request body as a free-form JSON object. Path params
// are left out on purpose, unlike c.Bind. Requests without a JSON body are
// treated as an empty document.
func bindDocument(c echo.Context) (entity.Document, error) {
	doc := entity.Document{}

	req := c.Request()
	if req.ContentLength == 0 || !isJSON(req.Header.Get(echo.HeaderContentType)) {
		return doc, nil
	}

	err := c.Echo().JSONSerializer.Deserialize(c, &doc)
	if errors.Is(err, io.EOF) {
		return entity.Document{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = entity.Document{}
	}
	return doc, nil
}

// isJSON matches the media type case-insensitively, ignoring parameters.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == echo.MIMEApplicationJSON
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
