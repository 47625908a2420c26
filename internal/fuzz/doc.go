// Package fuzztests houses Go fuzz harnesses for the lexer and the parser.
// They guard against panics, hangs and lost input on arbitrary bytes.
//
// Назначение: загрузить байты в FileSet и прогнать их через лексер/парсер,
// проверив, что дерево покрывает вход без потерь.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
