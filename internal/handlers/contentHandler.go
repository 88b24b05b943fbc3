package handlers

import (
	"sync"

	"github.com/akolanti/ContentAPI/internal/content"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

var (
	handlerInstance *ContentHandler //private singleton
	once            sync.Once
	logRH           *logger_i.Logger
)

type ContentHandler struct {
	service *content.Service
}

func InitContentHandler(contentService *content.Service) {
	once.Do(func() {
		handlerInstance = &ContentHandler{service: contentService}

		logRH = logger_i.NewLogger("RequestHandler")
		logRH.Info("Starting content handler")
	})
}
