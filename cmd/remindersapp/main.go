package main

import "github.com/jacquesvida12/RemindersApp/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.MustStartSessionPruner()
	defer app.StopSessionPruner()

	app.MustListenAndServeHTTP()
}
