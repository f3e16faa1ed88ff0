package builtins

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/quillssg/quill"
)

// registerImage wires the "image resizing" collaborator named in
// spec.md §1. No pack example imports an image-scaling library, so this
// is built on the stdlib image/image-jpeg/image-png trio named in
// DESIGN.md: decode with image.Decode, resize with a plain
// nearest-neighbour sampler (no ecosystem resize library appears
// anywhere in the retrieved pack to ground a higher-quality filter on),
// re-encode in the source format.
func registerImage(env *quill.Environment) {
	native(env, "resize_image", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "resize_image", args, 4) {
			return quill.NilValue, false
		}
		src, ok := argString(env, "resize_image", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		dest, ok := argString(env, "resize_image", args, 1)
		if !ok {
			return quill.NilValue, false
		}
		width, ok := argInt(env, "resize_image", args, 2)
		if !ok {
			return quill.NilValue, false
		}
		height, ok := argInt(env, "resize_image", args, 3)
		if !ok {
			return quill.NilValue, false
		}
		if width <= 0 || height <= 0 {
			return fail(env, "resize_image", "width and height must be positive")
		}

		in, err := os.Open(src)
		if err != nil {
			return fail(env, "resize_image", err.Error())
		}
		defer in.Close()
		img, format, err := image.Decode(in)
		if err != nil {
			return fail(env, "resize_image", err.Error())
		}

		resized := resizeNearest(img, int(width), int(height))

		out, err := os.Create(dest)
		if err != nil {
			return fail(env, "resize_image", err.Error())
		}
		defer out.Close()
		if err := encodeImage(out, resized, format); err != nil {
			return fail(env, "resize_image", err.Error())
		}
		return env.Arena().NewString(dest), true
	})
}

// resizeNearest scales src to exactly w x h using nearest-neighbour
// sampling.
func resizeNearest(src image.Image, w, h int) image.Image {
	bounds := src.Bounds()
	sw, sh := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sy := bounds.Min.Y + y*sh/h
		for x := 0; x < w; x++ {
			sx := bounds.Min.X + x*sw/w
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}

func encodeImage(w *os.File, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	default:
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	}
}
