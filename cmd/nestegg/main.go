package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/profile"

	"nestegg/internal/asm"
	"nestegg/internal/m6502"
)

func main() {
	var (
		imagePath = flag.String("image", "", "raw memory image, loaded at address 0")
		srcPath   = flag.String("src", "", "assembly source, assembled and loaded at address 0")
		steps     = flag.Int("steps", 10000, "maximum number of instructions to execute")
		profiling = flag.Bool("profile", false, "write a CPU profile to the current directory")
	)
	flag.Parse()

	if *profiling {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	image, err := loadImage(*imagePath, *srcPath)
	if err != nil {
		log.Fatalf("couldn't load the program: %s", err)
	}

	machine, err := m6502.NewFromImage(image)
	if err != nil {
		log.Fatalf("couldn't create the machine: %s", err)
	}

	n, runErr := machine.Run(*steps)
	if runErr != nil {
		fmt.Printf("halted after %d instructions: %s\n", n, runErr)
	} else {
		fmt.Printf("executed %d instructions\n", n)
	}

	regs := machine.Registers()
	fmt.Printf("A:%02X X:%02X Y:%02X P:%02X SP:%02X PC:%04X CYC:%d\n",
		regs.A, regs.X, regs.Y, regs.P, regs.SP, regs.PC, machine.Cycles())
}

func loadImage(imagePath, srcPath string) ([]byte, error) {
	switch {
	case imagePath != "" && srcPath != "":
		return nil, fmt.Errorf("use either -image or -src, not both")
	case imagePath != "":
		return os.ReadFile(imagePath)
	case srcPath != "":
		src, err := os.ReadFile(srcPath)
		if err != nil {
			return nil, err
		}
		return asm.Assemble(string(src))
	}
	return nil, fmt.Errorf("either -image or -src is required")
}
