package main

import (
	"encoding/binary"
	"fmt"

	"github.com/maemo32/v4rtos/internal/config"
	"github.com/maemo32/v4rtos/internal/rtos"
	"github.com/maemo32/v4rtos/internal/vmcore"
	"go.uber.org/zap"
)

// buildWord assembles one of a small set of named demo bytecode bodies.
// There is no assembler in this repository; the manifest's "file" field is
// carried through for operator documentation but the bodies themselves are
// fixed programs exercising the VM's arithmetic and stack ops.
func buildWord(name string) ([]byte, error) {
	switch name {
	case "blink":
		return assemble(
			op(vmcore.OpPush), imm32(1),
			op(vmcore.OpPush), imm32(0),
			op(vmcore.OpSwap),
			op(vmcore.OpDrop),
			op(vmcore.OpExit),
		), nil
	case "counter":
		return assemble(
			op(vmcore.OpPush), imm32(1),
			op(vmcore.OpPush), imm32(1),
			op(vmcore.OpAdd),
			op(vmcore.OpToR),
			op(vmcore.OpFromR),
			op(vmcore.OpExit),
		), nil
	default:
		return nil, fmt.Errorf("unknown word %q", name)
	}
}

func op(o vmcore.Opcode) []byte { return []byte{byte(o)} }

func imm32(n int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(n))
	return b
}

func assemble(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// buildSimulator loads cfgFile, registers its words against a fresh
// vmcore.VM, spawns its tasks, and returns the resulting RTOSVM.
func buildSimulator(cfgFile string, log *zap.Logger) (*rtos.RTOSVM, *config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	vm, err := vmcore.Create(vmcore.Config{})
	if err != nil {
		return nil, nil, err
	}

	wordIdx := map[string]uint16{}
	for _, w := range cfg.Words {
		code, err := buildWord(w.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("word %s: %w", w.Name, err)
		}
		idx, err := vm.RegisterWord(w.Name, code)
		if err != nil {
			return nil, nil, fmt.Errorf("registering word %s: %w", w.Name, err)
		}
		wordIdx[w.Name] = idx
	}

	r, err := rtos.Create(vm, rtos.WithLogger(log), rtos.WithTimeSliceMs(cfg.TimeSliceMs))
	if err != nil {
		return nil, nil, err
	}

	for _, task := range cfg.Tasks {
		idx, ok := wordIdx[task.Word]
		if !ok {
			return nil, nil, fmt.Errorf("task %s references unknown word %s", task.Name, task.Word)
		}
		if _, err := r.Spawn(idx, task.Priority, task.DSSize, task.RSSize); err != nil {
			return nil, nil, fmt.Errorf("spawning task %s: %w", task.Name, err)
		}
	}

	return r, cfg, nil
}
