package banner

import "fmt"

const banner = `
███████╗███████╗███████╗███████╗██╗ ██████╗ ███╗   ██╗██╗  ██╗██╗   ██╗██████╗
██╔════╝██╔════╝██╔════╝██╔════╝██║██╔═══██╗████╗  ██║██║  ██║██║   ██║██╔══██╗
███████╗█████╗  ███████╗███████╗██║██║   ██║██╔██╗ ██║███████║██║   ██║██████╔╝
╚════██║██╔══╝  ╚════██║╚════██║██║██║   ██║██║╚██╗██║██╔══██║██║   ██║██╔══██╗
███████║███████╗███████║███████║██║╚██████╔╝██║ ╚████║██║  ██║╚██████╔╝██████╔╝
╚══════╝╚══════╝╚══════╝╚══════╝╚═╝ ╚═════╝ ╚═╝  ╚═══╝╚═╝  ╚═╝ ╚═════╝ ╚═════╝
`

// Print writes the startup banner with the effective runtime info.
func Print(addr, version string, facilitator, killSwitch bool) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:      %s\n", addr)
	if version != "" {
		fmt.Printf("Version:     %s\n", version)
	}
	fmt.Printf("Facilitator: %v\n", facilitator)
	if !killSwitch {
		fmt.Println("Kill switch: disabled (no admin credential configured)")
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("WS   /ws          - live session protocol (chat, Q&A, presence)")
	fmt.Println("GET  /v1/chat     - chat history snapshot")
	fmt.Println("GET  /v1/qa       - Q&A threads snapshot")
	fmt.Println("GET  /v1/regions  - region tally")
	fmt.Println("GET  /v1/stats    - session totals")
	fmt.Println("GET  /metrics     - Prometheus metrics")
}
