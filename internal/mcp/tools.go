package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	Name = "mcp-server-tos"
)

var ListBucketsTool = mcp.NewTool(
	"list_buckets",
	mcp.WithDescription("Lists all TOS buckets the caller can access. When the server is configured with a bucket allowlist, only the allowed buckets are returned."),
)

var ListObjectsTool = mcp.NewTool(
	"list_objects",
	mcp.WithDescription("Lists objects in a TOS bucket, one page at a time. Pass the returned continuation token to fetch the next page. Optionally narrows the page with a glob pattern such as 'media/**/*.png'."),
	mcp.WithString("bucket", mcp.Required(), mcp.Description("name of the bucket to list")),
	mcp.WithString("prefix", mcp.Description("only return keys starting with this prefix")),
	mcp.WithString("start_after", mcp.Description("start listing after this key")),
	mcp.WithString("continuation_token", mcp.Description("token from a previous truncated listing")),
	mcp.WithNumber("max_keys", mcp.Description("maximum number of keys per page")),
	mcp.WithString("pattern", mcp.Description("glob pattern applied to returned keys, doublestar syntax")),
)

var GetObjectTool = mcp.NewTool(
	"get_object",
	mcp.WithDescription("Retrieves an object from TOS. Text content is returned as-is; binary content is returned base64-encoded. Objects larger than the configured size limit are rejected."),
	mcp.WithString("bucket", mcp.Required(), mcp.Description("name of the bucket")),
	mcp.WithString("key", mcp.Required(), mcp.Description("full key of the object")),
)

var ImageInfoTool = mcp.NewTool(
	"image_info",
	mcp.WithDescription("Retrieves image metadata (dimensions, format, EXIF) for an image stored in TOS, returned as a JSON document."),
	mcp.WithString("bucket_name", mcp.Required(), mcp.Description("name of the bucket")),
	mcp.WithString("key", mcp.Required(), mcp.Description("key of the image object")),
)

var ImageProcessTool = mcp.NewTool(
	"image_process",
	mcp.WithDescription("Runs a raw x-tos-process directive against an image, e.g. 'image/format,png' or 'image/format,png/resize,w_100'. Use the dedicated tools for common operations; this one is the escape hatch for arbitrary pipelines."),
	mcp.WithString("bucket_name", mcp.Required(), mcp.Description("name of the bucket")),
	mcp.WithString("key", mcp.Required(), mcp.Description("key of the image object")),
	mcp.WithString("process_uri", mcp.Required(), mcp.Description("image processing directive, starting with 'image/'")),
	mcp.WithString("saveas_object", mcp.Description("object key to save the result as; when omitted the result is returned inline")),
	mcp.WithString("saveas_bucket", mcp.Description("bucket to save the result in; defaults to the source bucket")),
)

var ImageFormatTool = mcp.NewTool(
	"image_format",
	mcp.WithDescription("Converts an image in TOS to another format. Returns the converted image base64-encoded, or a save receipt when saveas_object is given."),
	mcp.WithString("bucket_name", mcp.Required(), mcp.Description("name of the bucket")),
	mcp.WithString("key", mcp.Required(), mcp.Description("key of the image object")),
	mcp.WithString("output_format", mcp.Required(),
		mcp.Description("target image format"),
		mcp.Enum("jpg", "png", "webp", "bmp", "gif", "tiff", "heic")),
	mcp.WithString("saveas_object", mcp.Description("object key to save the result as")),
	mcp.WithString("saveas_bucket", mcp.Description("bucket to save the result in; defaults to the source bucket")),
)

var ImageResizeTool = mcp.NewTool(
	"image_resize",
	mcp.WithDescription("Resizes an image in TOS, either by target dimensions (mode/width/height/long/short) or by percentage (p). When p is given it takes precedence over the dimension parameters."),
	mcp.WithString("bucket_name", mcp.Required(), mcp.Description("name of the bucket")),
	mcp.WithString("key", mcp.Required(), mcp.Description("key of the image object")),
	mcp.WithString("mode",
		mcp.Description("resize mode: lfit scales to fit, mfit scales to fill, fixed ignores aspect ratio, fill crops, pad letterboxes"),
		mcp.Enum("lfit", "mfit", "fixed", "fill", "pad")),
	mcp.WithNumber("width", mcp.Description("target width in pixels")),
	mcp.WithNumber("height", mcp.Description("target height in pixels")),
	mcp.WithNumber("long", mcp.Description("target long side in pixels")),
	mcp.WithNumber("short", mcp.Description("target short side in pixels")),
	mcp.WithNumber("limit", mcp.Description("1 to keep the original when the target is larger, 0 to scale up")),
	mcp.WithNumber("p", mcp.Description("scale percentage (0-1000]; 100 keeps the original size")),
	mcp.WithString("color", mcp.Description("6-digit hex fill color for pad mode, e.g. 'FFFFFF'")),
	mcp.WithString("saveas_object", mcp.Description("object key to save the result as")),
	mcp.WithString("saveas_bucket", mcp.Description("bucket to save the result in; defaults to the source bucket")),
)

var ImageWatermarkTool = mcp.NewTool(
	"image_watermark",
	mcp.WithDescription("Adds one or more watermarks (text, image, or mixed) to an image in TOS. Each watermark spec supports: transparency (0-100), gravity (nw/north/ne/west/center/east/sw/south/se), x/y margins (0-4096), voffset (-1000..1000); image watermarks add image, image_process, p (scale 0-1000); text watermarks add text (max 64 bytes), font_type, color, size, shadow, rotate, fill; mixed add order, align, interval. Example: [{\"image\": \"logo.png\", \"gravity\": \"nw\"}, {\"text\": \"Confidential\", \"color\": \"FF0000\", \"size\": 60, \"gravity\": \"center\", \"rotate\": 45}]"),
	mcp.WithString("bucket_name", mcp.Required(), mcp.Description("name of the bucket")),
	mcp.WithString("key", mcp.Required(), mcp.Description("key of the image object")),
	mcp.WithArray("watermarks", mcp.Required(),
		mcp.Description("list of watermark configurations, applied in order"),
		mcp.Items(map[string]any{"type": "object"})),
	mcp.WithString("saveas_object", mcp.Description("object key to save the result as")),
	mcp.WithString("saveas_bucket", mcp.Description("bucket to save the result in; defaults to the source bucket")),
)

var ImageBlindWatermarkTool = mcp.NewTool(
	"image_blind_watermark",
	mcp.WithDescription("Embeds an invisible watermark into an image in TOS. Pass the watermark text as plain text; encoding happens server-side."),
	mcp.WithString("bucket_name", mcp.Required(), mcp.Description("name of the bucket")),
	mcp.WithString("key", mcp.Required(), mcp.Description("key of the image object")),
	mcp.WithString("text", mcp.Required(), mcp.Description("blind watermark text content, not base64-encoded")),
	mcp.WithNumber("version", mcp.Description("blind watermark algorithm version, 1 or 2")),
	mcp.WithNumber("level", mcp.Description("embedding strength, 1 to 3")),
	mcp.WithString("saveas_object", mcp.Description("object key to save the result as")),
	mcp.WithString("saveas_bucket", mcp.Description("bucket to save the result in; defaults to the source bucket")),
)

var VideoInfoTool = mcp.NewTool(
	"video_info",
	mcp.WithDescription("Retrieves video metadata (duration, streams, codecs) for a video stored in TOS, returned as a JSON document."),
	mcp.WithString("bucket_name", mcp.Required(), mcp.Description("name of the bucket")),
	mcp.WithString("key", mcp.Required(), mcp.Description("key of the video object")),
)

var VideoSnapshotTool = mcp.NewTool(
	"video_snapshot",
	mcp.WithDescription("Captures a frame from a video stored in TOS. Returns the frame as a base64-encoded image, or a save receipt when saveas_object is given."),
	mcp.WithString("bucket_name", mcp.Required(), mcp.Description("name of the bucket")),
	mcp.WithString("key", mcp.Required(), mcp.Description("key of the video object")),
	mcp.WithNumber("time", mcp.Description("capture timestamp in milliseconds")),
	mcp.WithNumber("width", mcp.Description("snapshot width in pixels; 0 derives it from the aspect ratio")),
	mcp.WithNumber("height", mcp.Description("snapshot height in pixels; 0 derives it from the aspect ratio")),
	mcp.WithString("mode",
		mcp.Description("empty captures the exact timestamp; 'fast' captures the nearest preceding keyframe"),
		mcp.Enum("fast")),
	mcp.WithString("output_format",
		mcp.Description("output image format"),
		mcp.Enum("jpg", "png")),
	mcp.WithString("auto_rotate",
		mcp.Description("rotation from video metadata: auto, w forces landscape, h forces portrait"),
		mcp.Enum("auto", "w", "h")),
	mcp.WithString("saveas_object", mcp.Description("object key to save the snapshot as")),
	mcp.WithString("saveas_bucket", mcp.Description("bucket to save the snapshot in; defaults to the source bucket")),
)
