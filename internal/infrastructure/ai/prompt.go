package ai

import (
	"fmt"
	"strings"
)

// systemPrompt define el rol del modelo para todos los proveedores.
const systemPrompt = `Você é um psicopedagogo que acompanha alunos neurodivergentes em escolas brasileiras.
Recebe a ficha do aluno em JSON (dados cadastrais, turma, condições, notas bimestrais, avaliações
socioemocionais em escala 1–5 e observações dos professores) e uma instrução do professor.

Regras:
- Responda em português do Brasil, em texto corrido, sem markdown nem blocos de código.
- Use apenas os dados da ficha; se faltar informação, diga explicitamente o que falta.
- Não faça diagnósticos médicos; foque em progresso, pontos fortes e estratégias pedagógicas.
- Máximo de 400 palavras.`

// userMessage arma el mensaje del usuario: instrucción + ficha.
func userMessage(instruction string, record []byte) string {
	return fmt.Sprintf("Instrução do professor:\n%s\n\nFicha do aluno (JSON):\n%s", strings.TrimSpace(instruction), record)
}

// cleanNarrative quita cercas de markdown que algunos modelos agregan igual.
func cleanNarrative(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		after := text[3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	return text
}
