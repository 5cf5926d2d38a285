package handler

import (
	"net/http"
	"path"
	"path/filepath"
)

// NewStaticHandler は同梱フロントエンドを配信するハンドラーを返す。
// 存在しないパスにはindex.htmlを返し、クライアント側ルーティングに委ねる。
func NewStaticHandler(dir string) http.Handler {
	root := http.Dir(dir)
	fileServer := http.FileServer(root)
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if f, err := root.Open(name); err == nil {
			info, statErr := f.Stat()
			f.Close()
			if statErr == nil && !info.IsDir() {
				fileServer.ServeHTTP(w, r)
				return
			}
		}
		http.ServeFile(w, r, index)
	})
}
