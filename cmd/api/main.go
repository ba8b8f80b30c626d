package main

import (
	"go.uber.org/fx"

	"github.com/pawmart/orderledger/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
