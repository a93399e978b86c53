package main

import (
	"go.uber.org/fx"

	"github.com/farmconnect/harvest/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
