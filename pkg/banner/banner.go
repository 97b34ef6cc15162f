package banner

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	// 颜色组合
	titleColor   = color.New(color.FgHiCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	defaultColor = color.New(color.FgWhite)
	numberColor  = color.New(color.FgHiYellow)
)

// SystemStatus 启动时打印的系统状态
type SystemStatus struct {
	Version        string
	Addr           string
	PostgresStatus bool
	MongoDBStatus  bool
	RedisStatus    bool
	RedisEnabled   bool
	UserCount      int64
	AppCount       int64
	AuditPoolSize  int
}

// Print 打印启动横幅与系统状态
func Print(status SystemStatus) {
	printLogo()

	titleColor.Println("| System Information")
	defaultColor.Println("│")
	defaultColor.Print("│ Version    : ")
	successColor.Printf("%s\n", status.Version)
	defaultColor.Print("│ Listen     : ")
	successColor.Printf("%s\n", status.Addr)

	defaultColor.Println("│")
	defaultColor.Println("│ Storage Status")
	defaultColor.Print("│ ⚡ Postgres : ")
	printStatus(status.PostgresStatus)
	defaultColor.Print("│ ⚡ MongoDB  : ")
	printStatus(status.MongoDBStatus)
	defaultColor.Print("│ ⚡ Redis    : ")
	if status.RedisEnabled {
		printStatus(status.RedisStatus)
	} else {
		warningColor.Println("Disabled")
	}

	defaultColor.Println("│")
	defaultColor.Println("│ Statistics")
	defaultColor.Print("│ ⚡ Users    : ")
	numberColor.Printf("%d\n", status.UserCount)
	defaultColor.Print("│ ⚡ Apps     : ")
	numberColor.Printf("%d\n", status.AppCount)
	defaultColor.Print("│ ⚡ Audit    : ")
	numberColor.Printf("%d workers\n", status.AuditPoolSize)

	fmt.Println()
	printEndpoints()
	fmt.Println()
}

// printEndpoints 打印对外路由一览
func printEndpoints() {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Endpoint", "Purpose"})
	table.SetBorder(false)
	table.SetColumnSeparator("|")

	table.Append([]string{"/api/:vir_uid/:app_slug/*uri", "mock gateway"})
	table.Append([]string{"/ajax/*", "console API"})
	table.Append([]string{"/ajax/logs/ws", "live request log"})
	table.Append([]string{"/health", "health check"})

	table.Render()
}

func printStatus(status bool) {
	if status {
		successColor.Print("Connected")
	} else {
		warningColor.Print("Disconnected")
	}
	fmt.Println()
}

func printLogo() {
	logo := `
  _    ___      ___          _
 | |  / (_)____/   |  ____  (_)
 | | / / / ___/ /| | / __ \/ /
 | |/ / / /  / ___ |/ /_/ / /
 |___/_/_/  /_/  |_/ .___/_/
                  /_/
`
	for _, line := range strings.Split(logo, "\n") {
		titleColor.Println(line)
	}
}
