package editor

import (
	"fmt"
	"os"

	"github.com/neovim/go-client/nvim"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/coverlay/errors"
	"github.com/grovetools/coverlay/logging"
)

var log *logrus.Entry

func init() {
	log = logging.NewLogger("editor")
}

// Buffer is one listed editor buffer and the file it holds.
type Buffer struct {
	Handle nvim.Buffer
	File   string
}

// Client is an RPC connection to a running Neovim instance.
type Client struct {
	v      *nvim.Nvim
	server string
}

// Attach connects to a Neovim instance. An empty server address falls back
// to $NVIM, the socket Neovim exports to its child processes.
func Attach(server string) (*Client, error) {
	if server == "" {
		server = os.Getenv("NVIM")
	}
	if server == "" {
		return nil, errors.New(errors.ErrCodeEditorUnavailable,
			"no editor server address: set editor.server in coverlay.yml or run inside :terminal")
	}

	v, err := nvim.Dial(server)
	if err != nil {
		return nil, errors.EditorUnavailable(server, err)
	}

	log.WithField("server", server).Debug("Attached to editor")
	return &Client{v: v, server: server}, nil
}

// Close disconnects from the editor.
func (c *Client) Close() error {
	return c.v.Close()
}

// ActiveFile returns the absolute path of the file in the current buffer,
// or empty when the current buffer holds no file.
func (c *Client) ActiveFile() (string, error) {
	buf, err := c.v.CurrentBuffer()
	if err != nil {
		return "", errors.EditorUnavailable(c.server, err)
	}
	name, err := c.v.BufferName(buf)
	if err != nil {
		return "", errors.EditorUnavailable(c.server, err)
	}
	return name, nil
}

// VisibleBuffers returns the file-backed buffers currently shown in a
// window, deduplicated when one buffer is shown in several windows.
func (c *Client) VisibleBuffers() ([]Buffer, error) {
	windows, err := c.v.Windows()
	if err != nil {
		return nil, errors.EditorUnavailable(c.server, err)
	}

	seen := make(map[nvim.Buffer]bool)
	var buffers []Buffer
	for _, win := range windows {
		buf, err := c.v.WindowBuffer(win)
		if err != nil {
			continue
		}
		if seen[buf] {
			continue
		}
		seen[buf] = true

		name, err := c.v.BufferName(buf)
		if err != nil || name == "" {
			continue
		}
		buffers = append(buffers, Buffer{Handle: buf, File: name})
	}
	return buffers, nil
}

// OnFocusChange invokes fn with the newly focused file whenever the active
// buffer changes. The returned release function removes the subscription.
func (c *Client) OnFocusChange(fn func(file string)) (func(), error) {
	const event = "coverlay_focus"

	if err := c.v.RegisterHandler(event, func(args ...interface{}) {
		if len(args) == 0 {
			return
		}
		file, ok := args[0].(string)
		if !ok {
			return
		}
		fn(file)
	}); err != nil {
		return nil, errors.EditorUnavailable(c.server, err)
	}

	// BufEnter covers both window switches and buffer replacement within
	// one window.
	group := fmt.Sprintf("augroup Coverlay | autocmd! | autocmd BufEnter * call rpcnotify(%d, '%s', expand('%%:p')) | augroup END",
		c.v.ChannelID(), event)
	if err := c.v.Command(group); err != nil {
		return nil, errors.EditorUnavailable(c.server, err)
	}

	release := func() {
		if err := c.v.Command("augroup Coverlay | autocmd! | augroup END"); err != nil {
			log.WithError(err).Debug("Failed to clear focus autocmds")
		}
	}
	return release, nil
}
