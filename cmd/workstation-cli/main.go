package main

import (
	"context"

	"jamberry-workstation/cmd/workstation-cli/commands"
	"jamberry-workstation/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "workstation-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
