// @title RC Link Bridge API
// @version 1.0.0
// @description HTTP-интерфейс моста RC-канала: телеметрия, обновление каналов, состояние.
// @host localhost:5181
// @BasePath /
package main

import "github.com/iwtcode/rlinkBridge/internal/app"

func main() {
	// Создаем и запускаем новый экземпляр приложения fx
	app.New().Run()
}
