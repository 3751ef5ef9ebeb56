package systray

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/getlantern/systray"
)

// Manager manages the system tray icon and menu
type Manager struct {
	webPort    int
	webEnabled bool
	iconData   []byte
	quit       chan struct{}
	pause      chan bool
}

// NewManager creates a new systray manager
func NewManager(webPort int, webEnabled bool, iconData []byte) *Manager {
	return &Manager{
		webPort:    webPort,
		webEnabled: webEnabled,
		iconData:   iconData,
		quit:       make(chan struct{}),
		pause:      make(chan bool, 1),
	}
}

// Run starts the system tray (blocking call)
func (m *Manager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray
func (m *Manager) Stop() {
	systray.Quit()
}

// WaitForQuit returns a channel that will be closed when user clicks Quit
func (m *Manager) WaitForQuit() <-chan struct{} {
	return m.quit
}

// PauseEvents returns a channel carrying pause state changes from the
// tray menu: true means stop listening for the trigger key.
func (m *Manager) PauseEvents() <-chan bool {
	return m.pause
}

// onReady is called when the systray is ready
func (m *Manager) onReady() {
	if len(m.iconData) > 0 {
		systray.SetIcon(m.iconData)
	}

	systray.SetTitle("ProKeys")
	systray.SetTooltip("ProKeys - Clipboard Keystroke Emulator")

	mPause := systray.AddMenuItemCheckbox("Pause listening", "Temporarily ignore the trigger key", false)
	var mDashboard *systray.MenuItem
	if m.webEnabled {
		mDashboard = systray.AddMenuItem("Open Dashboard", "Open the ProKeys dashboard")
	}
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit ProKeys")

	dashboardClicks := make(chan struct{})
	if mDashboard != nil {
		go func() {
			for range mDashboard.ClickedCh {
				dashboardClicks <- struct{}{}
			}
		}()
	}

	go func() {
		for {
			select {
			case <-mPause.ClickedCh:
				if mPause.Checked() {
					mPause.Uncheck()
				} else {
					mPause.Check()
				}
				m.sendPause(mPause.Checked())
			case <-dashboardClicks:
				m.openDashboard()
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				close(m.quit)
				systray.Quit()
				return
			}
		}
	}()
}

// sendPause delivers the latest pause state without blocking the menu
// loop; a stale undelivered state is replaced.
func (m *Manager) sendPause(paused bool) {
	select {
	case m.pause <- paused:
	default:
		select {
		case <-m.pause:
		default:
		}
		m.pause <- paused
	}
}

// onExit is called when the systray is exiting
func (m *Manager) onExit() {
	slog.Info("System tray exited")
}

// openDashboard opens the dashboard in the default browser
func (m *Manager) openDashboard() {
	url := fmt.Sprintf("http://localhost:%d", m.webPort)
	slog.Info("Opening dashboard", "url", url)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		slog.Error("Unsupported platform for opening browser", "platform", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to open dashboard", "error", err)
	}
}
