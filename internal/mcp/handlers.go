// Package mcp exposes TOS storage and media-processing operations as
// MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/chenat9/mcp-server/internal/config"
	"github.com/chenat9/mcp-server/internal/credential"
	"github.com/chenat9/mcp-server/pkg/directive"
	"github.com/chenat9/mcp-server/pkg/storage"
)

// store is the slice of the storage service the tool handlers consume.
type store interface {
	ListBuckets(ctx context.Context) ([]storage.Bucket, error)
	ListObjects(ctx context.Context, opts storage.ListOptions) (*storage.ListResult, error)
	GetObject(ctx context.Context, bucket, key string) (*storage.Content, error)
	Process(ctx context.Context, in storage.ProcessInput) (*storage.Content, error)
	Close() error
}

type storeFactory func(storage.Config) (store, error)

// Handlers implements the tool handlers over a storage service. In web
// deploy mode a fresh service is built per call from the request
// credential; in local mode the static configuration is used.
type Handlers struct {
	cfg      *config.Config
	logger   *zap.Logger
	newStore storeFactory
}

// NewHandlers creates the tool handler set.
func NewHandlers(cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{
		cfg:    cfg,
		logger: logger,
		newStore: func(sc storage.Config) (store, error) {
			return storage.New(sc)
		},
	}
}

func (h *Handlers) openStore(ctx context.Context) (store, error) {
	sc := h.cfg.StorageConfig()
	if h.cfg.WebDeploy() {
		cred, err := credential.FromContext(ctx, time.Now())
		if err != nil {
			return nil, err
		}
		sc.AccessKey = cred.AccessKeyID
		sc.SecretKey = cred.SecretAccessKey
		sc.SecurityToken = cred.SessionToken
		// Per-request credentials already scope access; the static
		// allowlist does not apply to them.
		sc.Buckets = nil
	}
	return h.newStore(sc)
}

func (h *Handlers) requestLogger(tool string) *zap.Logger {
	return h.logger.With(
		zap.String("tool", tool),
		zap.String("request_id", uuid.NewString()),
	)
}

func (h *Handlers) fail(logger *zap.Logger, msg string, err error) (*mcp.CallToolResult, error) {
	logger.Error(msg, zap.Error(err))
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", msg, err)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func contentResult(c *storage.Content) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(c.Data), nil
}

// ListBuckets handles the list_buckets tool.
func (h *Handlers) ListBuckets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("list_buckets")

	st, err := h.openStore(ctx)
	if err != nil {
		return h.fail(logger, "open storage client", err)
	}
	defer func() { _ = st.Close() }()

	buckets, err := st.ListBuckets(ctx)
	if err != nil {
		return h.fail(logger, "list buckets", err)
	}
	logger.Debug("listed buckets", zap.Int("count", len(buckets)))
	return jsonResult(buckets)
}

// ListObjects handles the list_objects tool.
func (h *Handlers) ListObjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("list_objects")
	a := args(request.GetArguments())

	bucket, err := a.requireString("bucket")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	st, err := h.openStore(ctx)
	if err != nil {
		return h.fail(logger, "open storage client", err)
	}
	defer func() { _ = st.Close() }()

	result, err := st.ListObjects(ctx, storage.ListOptions{
		Bucket:            bucket,
		Prefix:            a.str("prefix"),
		StartAfter:        a.str("start_after"),
		ContinuationToken: a.str("continuation_token"),
		MaxKeys:           a.intVal("max_keys"),
		Pattern:           a.str("pattern"),
	})
	if err != nil {
		return h.fail(logger, "list objects", err)
	}
	logger.Debug("listed objects",
		zap.String("bucket", bucket),
		zap.Int("count", len(result.Objects)))
	return jsonResult(result)
}

// GetObject handles the get_object tool.
func (h *Handlers) GetObject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("get_object")
	a := args(request.GetArguments())

	bucket, err := a.requireString("bucket")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := a.requireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	st, err := h.openStore(ctx)
	if err != nil {
		return h.fail(logger, "open storage client", err)
	}
	defer func() { _ = st.Close() }()

	content, err := st.GetObject(ctx, bucket, key)
	if err != nil {
		return h.fail(logger, "get object", err)
	}
	logger.Debug("fetched object",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int64("size", content.Size))
	return contentResult(content)
}

// process runs a directive pipeline against an object and returns the
// tool result. The save-as target, when present, comes from the request
// arguments.
func (h *Handlers) process(ctx context.Context, logger *zap.Logger, a args, pipeline string, textResult bool) (*mcp.CallToolResult, error) {
	bucket, err := a.requireString("bucket_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := a.requireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	st, err := h.openStore(ctx)
	if err != nil {
		return h.fail(logger, "open storage client", err)
	}
	defer func() { _ = st.Close() }()

	content, err := st.Process(ctx, storage.ProcessInput{
		Bucket:     bucket,
		Key:        key,
		Directive:  pipeline,
		SaveObject: a.str("saveas_object"),
		SaveBucket: a.str("saveas_bucket"),
		TextResult: textResult,
	})
	if err != nil {
		return h.fail(logger, "process object", err)
	}
	logger.Debug("processed object",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.String("directive", pipeline))
	return contentResult(content)
}

// ImageInfo handles the image_info tool.
func (h *Handlers) ImageInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("image_info")
	a := args(request.GetArguments())

	pipeline, err := directive.Image(directive.Info{}).Encode()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.process(ctx, logger, a, pipeline, true)
}

// ImageProcess handles the image_process tool.
func (h *Handlers) ImageProcess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("image_process")
	a := args(request.GetArguments())

	uri, err := a.requireString("process_uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pipeline, err := directive.Raw(uri)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.process(ctx, logger, a, pipeline, false)
}

// ImageFormat handles the image_format tool.
func (h *Handlers) ImageFormat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("image_format")
	a := args(request.GetArguments())

	format, err := a.requireString("output_format")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pipeline, err := directive.Image(directive.Format{Target: format}).Encode()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.process(ctx, logger, a, pipeline, false)
}

// ImageResize handles the image_resize tool.
func (h *Handlers) ImageResize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("image_resize")
	a := args(request.GetArguments())

	resize := directive.Resize{
		Mode:    a.str("mode"),
		Width:   a.intVal("width"),
		Height:  a.intVal("height"),
		Long:    a.intVal("long"),
		Short:   a.intVal("short"),
		Limit:   a.intPtr("limit"),
		Percent: a.intVal("p"),
		Color:   a.str("color"),
	}
	pipeline, err := directive.Image(resize).Encode()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.process(ctx, logger, a, pipeline, false)
}

// ImageWatermark handles the image_watermark tool.
func (h *Handlers) ImageWatermark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("image_watermark")
	a := args(request.GetArguments())

	actions, err := parseWatermarks(a["watermarks"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pipeline, err := directive.Image(actions...).Encode()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.process(ctx, logger, a, pipeline, false)
}

// ImageBlindWatermark handles the image_blind_watermark tool.
func (h *Handlers) ImageBlindWatermark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("image_blind_watermark")
	a := args(request.GetArguments())

	text, err := a.requireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	blind := directive.BlindWatermark{
		Text:    text,
		Version: a.intVal("version"),
		Level:   a.intVal("level"),
	}
	pipeline, err := directive.Image(blind).Encode()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.process(ctx, logger, a, pipeline, false)
}

// VideoInfo handles the video_info tool.
func (h *Handlers) VideoInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("video_info")
	a := args(request.GetArguments())

	pipeline, err := directive.Video(directive.Info{}).Encode()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.process(ctx, logger, a, pipeline, true)
}

// VideoSnapshot handles the video_snapshot tool.
func (h *Handlers) VideoSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := h.requestLogger("video_snapshot")
	a := args(request.GetArguments())

	snapshot := directive.Snapshot{
		TimeMS:     a.int64Ptr("time"),
		Width:      a.intPtr("width"),
		Height:     a.intPtr("height"),
		Mode:       a.str("mode"),
		Format:     a.str("output_format"),
		AutoRotate: a.str("auto_rotate"),
	}
	pipeline, err := directive.Video(snapshot).Encode()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.process(ctx, logger, a, pipeline, false)
}

func parseWatermarks(raw any) ([]directive.Action, error) {
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("watermarks must be a non-empty array of objects")
	}

	actions := make([]directive.Action, 0, len(list))
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("watermark %d: expected an object, got %T", i, entry)
		}
		wa := args(m)
		actions = append(actions, directive.Watermark{
			Image:        wa.str("image"),
			ImageProcess: wa.str("image_process"),
			Text:         wa.str("text"),
			FontType:     wa.str("font_type"),
			Color:        wa.str("color"),
			Size:         wa.intVal("size"),
			Shadow:       wa.intPtr("shadow"),
			Rotate:       wa.intPtr("rotate"),
			Fill:         wa.intPtr("fill"),
			Transparency: wa.intPtr("transparency"),
			Gravity:      wa.str("gravity"),
			X:            wa.intPtr("x"),
			Y:            wa.intPtr("y"),
			VOffset:      wa.intPtr("voffset"),
			Scale:        wa.intVal("p"),
			Order:        wa.intPtr("order"),
			Align:        wa.intPtr("align"),
			Interval:     wa.intPtr("interval"),
		})
	}
	return actions, nil
}

// args wraps the raw tool arguments with typed accessors. JSON numbers
// arrive as float64.
type args map[string]any

func (a args) str(name string) string {
	v, _ := a[name].(string)
	return v
}

func (a args) requireString(name string) (string, error) {
	v, ok := a[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required argument: %s", name)
	}
	return v, nil
}

func (a args) num(name string) (int64, bool) {
	switch v := a[name].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

func (a args) intVal(name string) int {
	n, _ := a.num(name)
	return int(n)
}

func (a args) intPtr(name string) *int {
	n, ok := a.num(name)
	if !ok {
		return nil
	}
	v := int(n)
	return &v
}

func (a args) int64Ptr(name string) *int64 {
	n, ok := a.num(name)
	if !ok {
		return nil
	}
	return &n
}
