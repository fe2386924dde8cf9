package methods

import (
	"fmt"
	"os/exec"
	Runtime "runtime"
)

func OpenURL(url string) error {
	var cmd *exec.Cmd

	switch Runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url) // Linux
	case "darwin":
		cmd = exec.Command("open", url) // macOS
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) // Windows
	default:
		return fmt.Errorf("unsupported platform")
	}

	return cmd.Start() // 启动命令
}
