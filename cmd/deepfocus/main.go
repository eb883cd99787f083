package main

import (
	"os"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/app"
)

func main() {
	os.Exit(app.Execute())
}
