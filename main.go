package main

import (
	"github.com/subhrajit77/DoDeck-The-Task-manager/app"
	_ "github.com/subhrajit77/DoDeck-The-Task-manager/docs"
)

func main() {
	// setup and run app
	err := app.SetupAndRunApp()
	if err != nil {
		panic(err)
	}
}
