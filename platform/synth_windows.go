//go:build windows

package platform

import (
	"fmt"
	"time"
	"unicode/utf16"
	"unsafe"
)

var (
	sendInput      = user32.NewProc("SendInput")
	mapVirtualKeyW = user32.NewProc("MapVirtualKeyW")
)

const (
	inputKeyboard    = 1
	keyeventfKeyup   = 0x0002
	keyeventfUnicode = 0x0004
	mapvkVkToVsc     = 0
)

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type input struct {
	inputType uint32
	ki        keyboardInput
	padding   [8]byte // Padding to match C struct size
}

// SendInputSynthesizer implements the Synthesizer interface with the
// Win32 SendInput API, using scan codes for better compatibility with
// elevated applications.
type SendInputSynthesizer struct{}

// NewSynthesizer creates the Windows key synthesizer.
func NewSynthesizer() Synthesizer {
	return &SendInputSynthesizer{}
}

func keyInput(vk uint16, up bool) input {
	scan, _, _ := mapVirtualKeyW.Call(uintptr(vk), mapvkVkToVsc)
	flags := uint32(0)
	if up {
		flags = keyeventfKeyup
	}
	return input{
		inputType: inputKeyboard,
		ki: keyboardInput{
			wVk:     vk,
			wScan:   uint16(scan),
			dwFlags: flags,
		},
	}
}

func send(inputs []input) error {
	if len(inputs) == 0 {
		return nil
	}
	ret, _, err := sendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if ret == 0 {
		return fmt.Errorf("SendInput failed: %w", err)
	}
	return nil
}

// PressAndRelease taps a single key.
func (s *SendInputSynthesizer) PressAndRelease(key string) error {
	vk, err := vkCode(key)
	if err != nil {
		return err
	}
	return send([]input{keyInput(vk, false), keyInput(vk, true)})
}

// Hold presses a key without releasing it.
func (s *SendInputSynthesizer) Hold(key string) error {
	vk, err := vkCode(key)
	if err != nil {
		return err
	}
	return send([]input{keyInput(vk, false)})
}

// Release releases a previously held key.
func (s *SendInputSynthesizer) Release(key string) error {
	vk, err := vkCode(key)
	if err != nil {
		return err
	}
	return send([]input{keyInput(vk, true)})
}

// Combo presses the keys in order and releases them in reverse, sent as
// one SendInput batch for atomicity.
func (s *SendInputSynthesizer) Combo(keys ...string) error {
	inputs := make([]input, 0, len(keys)*2)
	for _, key := range keys {
		vk, err := vkCode(key)
		if err != nil {
			return err
		}
		inputs = append(inputs, keyInput(vk, false))
	}
	for i := len(keys) - 1; i >= 0; i-- {
		vk, _ := vkCode(keys[i])
		inputs = append(inputs, keyInput(vk, true))
	}
	if err := send(inputs); err != nil {
		return err
	}
	// Small delay to ensure input is processed
	time.Sleep(20 * time.Millisecond)
	return nil
}

// WriteText injects text as KEYEVENTF_UNICODE events, independent of the
// key table and the active layout.
func (s *SendInputSynthesizer) WriteText(text string, interval time.Duration) error {
	for _, ch := range text {
		// Control characters go through their real keys; applications
		// rarely accept them as unicode payloads.
		if ch == '\n' || ch == '\t' {
			key := "enter"
			if ch == '\t' {
				key = "tab"
			}
			if err := s.PressAndRelease(key); err != nil {
				return err
			}
			if interval > 0 {
				time.Sleep(interval)
			}
			continue
		}
		var inputs []input
		for _, unit := range utf16.Encode([]rune{ch}) {
			inputs = append(inputs,
				input{
					inputType: inputKeyboard,
					ki: keyboardInput{
						wScan:   unit,
						dwFlags: keyeventfUnicode,
					},
				},
				input{
					inputType: inputKeyboard,
					ki: keyboardInput{
						wScan:   unit,
						dwFlags: keyeventfUnicode | keyeventfKeyup,
					},
				},
			)
		}
		if err := send(inputs); err != nil {
			return err
		}
		if interval > 0 {
			time.Sleep(interval)
		}
	}
	return nil
}
