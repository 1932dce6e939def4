package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/ElvBry/samplelog/pkg/uart"
)

var (
	serialDev string
	baud      int
	evalOnly  bool
)

func init() {
	flag.StringVar(&serialDev, "device", "/dev/ttyUSB0", "Serial device of the logger.")
	flag.IntVar(&baud, "baud", uart.DefaultBaud, "Baud rate.")
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// console wraps the serial port: device output is mirrored to stdout by
// a background pump, commands are written as terminated lines.
type console struct {
	port *uart.SerialPort
}

func (c *console) pump() {
	buf := make([]byte, 256)
	for {
		n, err := c.port.Read(buf)
		if n > 0 {
			os.Stdout.Write(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				glog.Errorf("read: %v", err)
			}
			return
		}
	}
}

func (c *console) sendLine(words ...string) error {
	line := strings.Join(words, " ") + "\r"
	if _, err := c.port.Write([]byte(line)); err != nil {
		return err
	}
	// Give the device a moment to respond before the prompt redraws
	// over its output.
	time.Sleep(200 * time.Millisecond)
	return nil
}

func deviceCmd(c *console, name, help string) *ishell.Cmd {
	return &ishell.Cmd{
		Name: name,
		Help: help,
		Func: func(ctx *ishell.Context) {
			if err := c.sendLine(append([]string{name}, ctx.Args...)...); err != nil {
				ctx.Err(err)
			}
		},
	}
}

func main() {
	flag.Parse()

	port, err := uart.OpenSerial(serialDev, baud)
	if err != nil {
		glog.Exitf("open %s: %v", serialDev, err)
	}
	defer port.Close()

	c := &console{port: port}
	go c.pump()

	if evalOnly {
		if err := c.sendLine(flag.Args()...); err != nil {
			glog.Exit(err)
		}
		time.Sleep(time.Second)
		return
	}

	shell := ishell.New()
	shell.Println("samplelog console - device commands are forwarded over serial")
	shell.SetPrompt(fmt.Sprintf("[%s] > ", serialDev))

	shell.AddCmd(deviceCmd(c, "start", "Begin logging data."))
	shell.AddCmd(deviceCmd(c, "stop", "Stop logging data."))
	shell.AddCmd(deviceCmd(c, "info", "Show system information."))
	shell.AddCmd(deviceCmd(c, "set", "set period <ms> | set level <0-5>."))
	shell.AddCmd(deviceCmd(c, "dump", "Print last <count> entries as CSV."))
	shell.AddCmd(deviceCmd(c, "clear", "Remove last <count> entries."))
	shell.AddCmd(deviceCmd(c, "reset", "Erase all data and reset."))
	shell.AddCmd(&ishell.Cmd{
		Name: "raw",
		Help: "Send a raw line to the device.",
		Func: func(ctx *ishell.Context) {
			if err := c.sendLine(ctx.Args...); err != nil {
				ctx.Err(err)
			}
		},
	})

	shell.Run()
}
