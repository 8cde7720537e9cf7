// Package httpapi はレポートを HTTP で提供します
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ScanFold/internal/domain/model"
	"ScanFold/internal/infrastructure/logging"
	"ScanFold/internal/usecase/report"
)

const shutdownTimeout = 5 * time.Second

// Streamer はレポートを書き出す機能です
type Streamer interface {
	Stream(ctx context.Context, req model.ScanRequest, w io.Writer) (*report.Report, error)
}

// ReportHandler はレポート API のハンドラーです
type ReportHandler struct {
	streamer Streamer
	logger   logging.Logger
}

// NewReportHandler は新しい ReportHandler を作成します
func NewReportHandler(streamer Streamer, logger logging.Logger) *ReportHandler {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &ReportHandler{streamer: streamer, logger: logger}
}

// GetReport は path と details クエリからレポートを生成して text/plain で返します
func (h *ReportHandler) GetReport(c *gin.Context) {
	root := c.Query("path")
	if root == "" {
		c.String(http.StatusBadRequest, "missing path parameter\n")
		return
	}

	details := false
	if raw := c.Query("details"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.String(http.StatusBadRequest, "invalid details parameter: %s\n", raw)
			return
		}
		details = v
	}

	// 途中で失敗した場合にステータスを返せるようにバッファしてから送る
	var buf bytes.Buffer
	r, err := h.streamer.Stream(c.Request.Context(), model.NewScanRequest(root, details), &buf)
	switch {
	case errors.Is(err, model.ErrInvalidRoot):
		c.String(http.StatusNotFound, "%v\n", err)
		return
	case err != nil:
		h.logger.Log(logging.LevelError, fmt.Sprintf("report for '%s' failed", root), err)
		c.String(http.StatusInternalServerError, "scan failed\n")
		return
	}

	c.Header("X-Scan-Outcome", r.Result.Outcome().String())
	c.Header("X-Soft-Failures", strconv.Itoa(len(r.Result.SoftFailures)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

// NewRouter は API のルーティングを設定した gin エンジンを返します
func NewRouter(streamer Streamer, logger logging.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	handler := NewReportHandler(streamer, logger)
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	api := r.Group("/api")
	api.GET("/report", handler.GetReport)
	return r
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Nop{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Log(logging.LevelDebug, fmt.Sprintf("%s %s %d %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start)), nil)
	}
}

// Serve は ctx がキャンセルされるまで HTTP サーバーを実行します
func Serve(ctx context.Context, addr string, handler http.Handler, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Nop{}
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log(logging.LevelInfo, fmt.Sprintf("listening on http://%s", addr), nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Log(logging.LevelInfo, "shutting down http server", nil)
		return srv.Shutdown(shutdownCtx)
	}
}
