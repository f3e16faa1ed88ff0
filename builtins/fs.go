package builtins

import (
	"io"
	"os"
	"path/filepath"

	"github.com/quillssg/quill"
)

// registerFS wires the "file I/O wrappers" and "filesystem walks"
// collaborators named in spec.md §1, grounded on the sitemap package's
// own os/io/path-filepath usage for the copy site-map entry — the same
// stdlib trio, exposed here as callable natives for scripts that need
// ad hoc file access outside the declarative SITE_MAP entries.
func registerFS(env *quill.Environment) {
	native(env, "read_file", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "read_file", args, 1) {
			return quill.NilValue, false
		}
		path, ok := argString(env, "read_file", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fail(env, "read_file", err.Error())
		}
		return env.Arena().NewString(string(data)), true
	})

	native(env, "write_file", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "write_file", args, 2) {
			return quill.NilValue, false
		}
		path, ok := argString(env, "write_file", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		content, ok := argString(env, "write_file", args, 1)
		if !ok {
			return quill.NilValue, false
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fail(env, "write_file", err.Error())
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fail(env, "write_file", err.Error())
		}
		return quill.TrueValue, true
	})

	native(env, "copy_file", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "copy_file", args, 2) {
			return quill.NilValue, false
		}
		src, ok := argString(env, "copy_file", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		dest, ok := argString(env, "copy_file", args, 1)
		if !ok {
			return quill.NilValue, false
		}
		in, err := os.Open(src)
		if err != nil {
			return fail(env, "copy_file", err.Error())
		}
		defer in.Close()
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fail(env, "copy_file", err.Error())
		}
		out, err := os.Create(dest)
		if err != nil {
			return fail(env, "copy_file", err.Error())
		}
		defer out.Close()
		if _, err := io.Copy(out, in); err != nil {
			return fail(env, "copy_file", err.Error())
		}
		return quill.TrueValue, true
	})

	native(env, "file_exists", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "file_exists", args, 1) {
			return quill.NilValue, false
		}
		path, ok := argString(env, "file_exists", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		_, err := os.Stat(path)
		return env.Arena().NewBool(err == nil), true
	})

	native(env, "list_dir", func(env *quill.Environment, args []*quill.Value) (*quill.Value, bool) {
		if !argCount(env, "list_dir", args, 1) {
			return quill.NilValue, false
		}
		dir, ok := argString(env, "list_dir", args, 0)
		if !ok {
			return quill.NilValue, false
		}
		var names []string
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == dir {
				return nil
			}
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return relErr
			}
			names = append(names, filepath.ToSlash(rel))
			if d.IsDir() {
				return nil
			}
			return nil
		})
		if err != nil {
			return fail(env, "list_dir", err.Error())
		}
		items := make([]*quill.Value, len(names))
		for i, n := range names {
			items[i] = env.Arena().NewString(n)
		}
		return env.Arena().NewArray(items...), true
	})
}
