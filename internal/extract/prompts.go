package extract

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindCPUCores     Kind = "cpu_cores"
	KindCPUFrequency Kind = "cpu_frequency"
	KindGPUMemory    Kind = "gpu_memory"
)

// UnknownToken is what the oracle answers when a value cannot be extracted.
const UnknownToken = "None"

const cpuCoresTemplate = `Extract **only the number of CPU cores** from the following CPU model name(s):

Input: '%s'

Rules:
1. Return **only the number**, no explanation, no units (e.g., '8', not '8 cores').
2. If the input is **not a CPU** or the **number of cores is not specified**, return 'None'.
3. If **multiple CPUs** are listed, return the **lowest number of cores** found.

Examples:
* Intel Core i7-9700K 8 cores → 8
* AMD Ryzen 5 5600X with 6 cores → 6
* Intel Core i5-8250U (4 cores) / AMD Ryzen 5 5500 (6 cores) → 4
* core 2 duo → 2
* NVIDIA RTX 3080 → None

Return only the number, no explanation.`

const cpuFrequencyTemplate = `Extract **only the numeric frequency in GHz** from the following CPU model name(s):

Input: '%s'

Rules:
1. Return **only the number**, without any unit (e.g., '3.5', not '3.5GHz').
2. If the input is **not a CPU** or the **frequency is not specified**, return 'None'.
3. If **multiple CPUs** are listed, return the **lowest frequency number** (only one number).

Examples:
* Intel Core i7-9700K 3.6GHz → 3.6
* AMD Ryzen 5 5600X 4.6GHz → 4.6
* Intel Core i5-8250U 1.6GHz / AMD Ryzen 5 5500 3.7GHz → 1.6
* NVIDIA RTX 3080 → None

Return only the number, no explanation.`

const gpuMemoryTemplate = `Extract **only the numeric memory size** of the GPU model(s) provided as input.

Input: '%s'

Rules:
1. Return **only the number**, without any units (e.g., '6', not '6GB').
2. If a **frequency (e.g., MHz)** is specified instead of memory, return that number.
3. If the input is **not a GPU**, return 'None'.
4. If the **memory is specified**, return that number.
5. If **multiple GPUs** are listed, return the **lowest memory amount** (only one number).

Examples:
* geforce gtx 1060 6gb → 6
* radeon rx 580 8gb → 8
* arc a380 → None
* intel core i7 → None
* 2x RTX 2080 Ti 11GB, 1x GTX 1050 2GB → 2
* geforce gtx 960, 1300 MHz → 1300

Provide only the extracted number, no explanation.`

var templates = map[Kind]string{
	KindCPUCores:     cpuCoresTemplate,
	KindCPUFrequency: cpuFrequencyTemplate,
	KindGPUMemory:    gpuMemoryTemplate,
}

// Prompt renders the instruction for kind around an already normalized input.
func Prompt(kind Kind, input string) (string, error) {
	tmpl, ok := templates[kind]
	if !ok {
		return "", fmt.Errorf("no prompt template for kind %q", kind)
	}
	return fmt.Sprintf(tmpl, input), nil
}

// Normalize prepares a descriptor for extraction: lowercase, the comparison
// marker "better" removed, control characters dropped, whitespace collapsed.
// Single quotes become spaces so the input cannot close the Input slot.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "better", "")
	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\'' || r == '`':
			return ' '
		case r == '\n' || r == '\t' || r == '\r':
			return ' '
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
			return -1
		}
		return r
	}, text)
	return strings.Join(strings.Fields(text), " ")
}
