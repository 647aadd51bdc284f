package server

import (
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// WrapH2C: TLS 종단이 리버스 프록시에 있는 배포 형태를 전제로,
// 핸들러를 HTTP/2 Cleartext를 받을 수 있게 래핑한다. HTTP/1.1 요청은 그대로 처리된다.
func WrapH2C(handler http.Handler) http.Handler {
	return h2c.NewHandler(handler, &http2.Server{})
}
