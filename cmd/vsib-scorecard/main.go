package main

import (
	"context"
	"vsib-scorecard/cmd/vsib-scorecard/commands"
	"vsib-scorecard/lib/serviceutil"
	"vsib-scorecard/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	tel, err := telemetry.SetupFromEnv(ctx, "vsib-scorecard")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
