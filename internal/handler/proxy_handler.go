package handler

import (
	"net/http"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
	"go.uber.org/zap"
)

type ProxyHandler struct {
	proxy  ImageProxy
	logger *zap.Logger
}

func NewProxyHandler(proxy ImageProxy, logger *zap.Logger) *ProxyHandler {
	return &ProxyHandler{proxy: proxy, logger: logger.Named("ProxyHTTPHandler")}
}

// ProxyImage relays ?url= so article images load from this origin.
func (h *ProxyHandler) ProxyImage(w http.ResponseWriter, r *http.Request) {
	res := h.proxy.Fetch(r.Context(), r.URL.Query().Get("url"))

	switch {
	case res.Redirect != "":
		http.Redirect(w, r, res.Redirect, res.Status)
	case res.Status != http.StatusOK:
		h.logger.Debug("Image proxy rejected request", zap.Int("status", res.Status), zap.String("reason", res.Message))
		http.Error(w, res.Message, res.Status)
	default:
		w.Header().Set("Content-Type", res.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Body)))
		w.Header().Set("Cache-Control", usecase.ImageCacheControl)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Body)
	}
}
