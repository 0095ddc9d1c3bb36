package controllers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

const (
	PageIndex    = "index.html"
	PageProducts = "produtos.html"
	PageAdmin    = "admin.html"
	PageLogin    = "login.html"
)

var protectedPages = map[string]struct{}{
	PageIndex:    {},
	PageProducts: {},
	PageAdmin:    {},
}

// RootRedirect sends visitors of / to the shopper login page.
func RootRedirect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/"+PageLogin, http.StatusFound)
	}
}

// Page serves one HTML file from the public directory. Mount it behind
// RequireSession for protected pages.
func Page(publicDir, name string) http.HandlerFunc {
	file := filepath.Join(publicDir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := os.Open(file)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		http.ServeContent(w, r, name, info.ModTime(), f)
	}
}

// StaticFiles serves the public directory, refusing the protected pages so
// they are only reachable through their guarded routes.
func StaticFiles(publicDir string) http.Handler {
	files := http.FileServer(http.Dir(publicDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean("/" + r.URL.Path)
		if _, ok := protectedPages[path.Base(clean)]; ok {
			http.NotFound(w, r)
			return
		}
		if clean == "/" {
			http.Redirect(w, r, "/"+PageLogin, http.StatusFound)
			return
		}
		files.ServeHTTP(w, r)
	})
}
