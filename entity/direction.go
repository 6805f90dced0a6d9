package entity

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// Direction 路口方向
// 功能：标识路口四个进口方向之一，是需求表与信控决策的键
// 说明：取值顺序即稳定迭代顺序，argmax平局与公平性回退都依赖该顺序
type Direction int32

const (
	DirectionNorth Direction = iota // 北进口
	DirectionEast                   // 东进口
	DirectionSouth                  // 南进口
	DirectionWest                   // 西进口
)

// Directions 全部方向的固定顺序列表
// 说明：所有按方向遍历的代码必须使用该列表，保证决策可复现
var Directions = []Direction{
	DirectionNorth,
	DirectionEast,
	DirectionSouth,
	DirectionWest,
}

// 方向与名字的映射表
var directionNames = map[Direction]string{
	DirectionNorth: "NORTH",
	DirectionEast:  "EAST",
	DirectionSouth: "SOUTH",
	DirectionWest:  "WEST",
}

// String 获取方向的字符串表示
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int32(d))
}

// ParseDirection 将名字解析为方向
// 功能：解析配置文件中的方向名（NORTH/EAST/SOUTH/WEST）
// 参数：name-方向名
// 返回：方向与错误信息，名字非法时返回error
func ParseDirection(name string) (Direction, error) {
	for d, n := range directionNames {
		if n == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction name %q", name)
}

// UnmarshalYAML 实现yaml反序列化接口
// 说明：配置文件中以方向名表示方向
func (d *Direction) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseDirection(name)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML 实现yaml序列化接口
func (d Direction) MarshalYAML() (any, error) {
	return d.String(), nil
}

var _ yaml.Unmarshaler = (*Direction)(nil)
var _ yaml.Marshaler = Direction(0)
