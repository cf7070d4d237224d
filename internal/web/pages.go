// Package web はログイン画面などのHTMLページと静的ファイルを配信します。
package web

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"
)

const (
	LoginPage   = "login.html"
	Screen1Page = "screen1.html"
)

//go:embed pages/*.html
var embedded embed.FS

// Pages はページの配信元です。PublicDir に同名のファイルがあればそちらを優先し、
// 無ければバイナリに埋め込んだページを返します。
type Pages struct {
	public   fs.FS // nil 可
	builtins fs.FS
}

// New は Pages を作成します。publicDir が空の場合は埋め込みページだけを使います。
func New(publicDir string) *Pages {
	builtins, _ := fs.Sub(embedded, "pages")
	p := &Pages{builtins: builtins}
	if publicDir != "" {
		p.public = os.DirFS(publicDir)
	}
	return p
}

// Serve は name のページを返すハンドラーです。
func (p *Pages) Serve(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := p.read(name)
		if err != nil {
			c.String(http.StatusNotFound, "Not Found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
}

// Static は PublicDir 内のファイルを配信する NoRoute 用ハンドラーです。
// PublicDir が未設定、ファイルが無い、ディレクトリ、または protected に含まれる場合は 404 を返します。
// protected にはログインが必要なページを渡し、ゲートを迂回されないようにします。
func (p *Pages) Static(protected ...string) gin.HandlerFunc {
	var fileServer http.Handler
	if p.public != nil {
		fileServer = http.FileServer(http.FS(p.public))
	}
	blocked := make(map[string]bool, len(protected))
	for _, name := range protected {
		blocked[path.Clean("/"+name)] = true
	}
	return func(c *gin.Context) {
		method := c.Request.Method
		if fileServer == nil || (method != http.MethodGet && method != http.MethodHead) {
			c.String(http.StatusNotFound, "Not Found")
			return
		}
		name := path.Clean(c.Request.URL.Path)
		if name == "/" || blocked[name] {
			c.String(http.StatusNotFound, "Not Found")
			return
		}
		// ディレクトリの一覧は返さない
		if info, err := fs.Stat(p.public, name[1:]); err != nil || info.IsDir() {
			c.String(http.StatusNotFound, "Not Found")
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}

func (p *Pages) read(name string) ([]byte, error) {
	if p.public != nil {
		data, err := fs.ReadFile(p.public, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return fs.ReadFile(p.builtins, name)
}
