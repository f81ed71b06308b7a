package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"

	"github.com/grovetools/coverlay/cli"
	"github.com/grovetools/coverlay/logging"
	"github.com/grovetools/coverlay/tui/theme"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display coverlay's own log output",
		Long: `Reads the per-component log files under .coverlay/logs/ and prints them
merged and formatted.

Examples:
  # Print accumulated logs
  coverlay logs

  # Follow new log lines
  coverlay logs -f

  # Only the service component, raw JSON lines
  coverlay logs --component service --json
`,
		RunE: runLogsE,
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().String("component", "", "Only show logs from this component")

	return cmd
}

func runLogsE(cmd *cobra.Command, args []string) error {
	opts := cli.GetOptions(cmd)
	follow, _ := cmd.Flags().GetBool("follow")
	component, _ := cmd.Flags().GetString("component")

	logsDir := logging.LogDir()
	files, err := findLogFiles(logsDir, component)
	if err != nil {
		return err
	}
	if len(files) == 0 && !follow {
		fmt.Printf("No log files found in %s\n", logsDir)
		return nil
	}

	lineChan := make(chan string, 100)
	var wg sync.WaitGroup

	for _, file := range files {
		wg.Add(1)
		go tailLogFile(file, lineChan, &wg, follow)
	}

	go func() {
		wg.Wait()
		close(lineChan)
	}()

	for line := range lineChan {
		if opts.JSONOutput {
			fmt.Println(line)
		} else {
			printLogLine(line)
		}
	}
	return nil
}

// findLogFiles lists the log files for the requested component, or all
// components when it is empty. Files are named "<component>-<date>.log".
func findLogFiles(dir, component string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".log") {
			continue
		}
		if component != "" && !strings.HasPrefix(name, component+"-") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// tailLogFile streams a log file's lines into lineChan.
func tailLogFile(path string, lineChan chan<- string, wg *sync.WaitGroup, follow bool) {
	defer wg.Done()

	cfg := tail.Config{
		Follow: follow,
		ReOpen: follow,
		Logger: tail.DiscardingLogger,
	}
	if follow {
		cfg.Location = &tail.SeekInfo{Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, cfg)
	if err != nil {
		return
	}
	defer t.Cleanup()

	for line := range t.Lines {
		if line.Err != nil {
			break
		}
		if strings.TrimSpace(line.Text) != "" {
			lineChan <- line.Text
		}
	}
}

// printLogLine pretty-prints a JSON log line for human consumption, falling
// back to the raw line when it does not parse.
func printLogLine(line string) {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(line), &logMap); err != nil {
		fmt.Println(line)
		return
	}

	ts, _ := logMap["time"].(string)
	level, _ := logMap["level"].(string)
	msg, _ := logMap["msg"].(string)
	component, _ := logMap["component"].(string)

	parsedTime, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		parsedTime, _ = time.Parse(time.RFC3339, ts)
	}
	timeStr := parsedTime.Format("15:04:05")

	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = theme.DefaultTheme.Error
	case "warning":
		levelStyle = theme.DefaultTheme.Warning
	case "info":
		levelStyle = theme.DefaultTheme.Info
	default:
		levelStyle = theme.DefaultTheme.Muted
	}

	var fields []string
	var keys []string
	for k := range logMap {
		if k != "time" && k != "level" && k != "msg" && k != "component" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", theme.DefaultTheme.Muted.Render(k), logMap[k]))
	}

	fmt.Printf("%s %s [%s] %s %s\n",
		timeStr,
		levelStyle.Render(strings.ToUpper(level)),
		theme.DefaultTheme.Accent.Render(component),
		msg,
		strings.Join(fields, " "),
	)
}
