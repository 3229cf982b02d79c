package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CheckFileReadable verifies that path names an existing, readable regular file.
func CheckFileReadable(name, path string) Result {
	res := Result{Name: name, Path: path}
	if path == "" {
		res.Detail = "no path given"
		return res
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			res.Detail = fmt.Sprintf("%s (error: does not exist)", path)
			return res
		}
		res.Detail = fmt.Sprintf("%s (error: stat: %v)", path, err)
		return res
	}
	if info.IsDir() {
		res.Detail = fmt.Sprintf("%s (error: is a directory)", path)
		return res
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		res.Detail = fmt.Sprintf("%s (error: not readable: %v)", path, err)
		return res
	}
	res.Passed = true
	res.Detail = fmt.Sprintf("%s (readable)", path)
	return res
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	res := Result{Name: name, Path: path}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			res.Detail = fmt.Sprintf("%s (error: does not exist)", path)
			return res
		}
		res.Detail = fmt.Sprintf("%s (error: stat: %v)", path, err)
		return res
	}
	if !info.IsDir() {
		res.Detail = fmt.Sprintf("%s (error: is not a directory)", path)
		return res
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		res.Detail = fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)
		return res
	}
	res.Passed = true
	res.Detail = fmt.Sprintf("%s (read/write ok)", path)
	return res
}
