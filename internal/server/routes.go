package server

import (
	"net/http"

	mw "football-store/internal/middleware"
)

// 上から順に評価。どれにも一致しなければログイン必須
var APIPolicy = mw.Policy{
	{Method: http.MethodPost, Path: "/api/auth/register", Need: mw.Public},
	{Method: http.MethodPost, Path: "/api/auth/login", Need: mw.Public},

	{Method: http.MethodGet, Path: "/api/product", Need: mw.Public},
	{Method: http.MethodGet, Path: "/api/product/*", Need: mw.Public},
	{Method: http.MethodGet, Path: "/api/products", Need: mw.Public},
	{Method: http.MethodGet, Path: "/api/products/:id", Need: mw.Public},
	{Method: "*", Path: "/api/products/*", Need: mw.Admin},
	{Method: http.MethodPost, Path: "/api/products", Need: mw.Admin},

	{Method: http.MethodGet, Path: "/api/productInventory/*", Need: mw.Public},
	{Method: http.MethodPut, Path: "/api/productInventory/*", Need: mw.Admin},

	{Method: http.MethodGet, Path: "/api/discount/validate", Need: mw.Public},
	{Method: http.MethodPut, Path: "/api/discount/:id/use", Need: mw.Authenticated},
	{Method: "*", Path: "/api/discount/*", Need: mw.Admin},

	{Method: http.MethodDelete, Path: "/api/orders/:id", Need: mw.Admin},

	{Method: "*", Path: "/api/admin/*", Need: mw.Admin},

	{Method: http.MethodGet, Path: "/healthz", Need: mw.Public},
}
